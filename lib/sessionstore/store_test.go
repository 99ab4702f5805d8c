package sessionstore

import (
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func siteURL(t *testing.T) *url.URL {
	u, err := url.Parse("https://idonethis.com/")
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	u := siteURL(t)

	store, err := OpenAt(root, "alice")
	if err != nil {
		t.Fatal(err)
	}
	store.Jar().SetCookies(u, []*http.Cookie{
		{Name: "csrftoken", Value: "tok123", Path: "/", Secure: true},
		{
			Name:    "sessionid",
			Value:   "sess456",
			Path:    "/",
			Secure:  true,
			Expires: time.Now().Add(24 * time.Hour),
		},
	})
	err = store.Save()
	if err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenAt(root, "alice")
	if err != nil {
		t.Fatal(err)
	}
	cookies := reopened.Jar().Cookies(u)

	byName := map[string]string{}
	for _, c := range cookies {
		byName[c.Name] = c.Value
	}
	require.Equal(t, "tok123", byName["csrftoken"])
	require.Equal(t, "sess456", byName["sessionid"])
}

func TestMissingSessionIsAbsent(t *testing.T) {
	store, err := OpenAt(t.TempDir(), "bob")
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, store.Jar().Cookies(siteURL(t)))
}

func TestExpiredCookiesDropped(t *testing.T) {
	root := t.TempDir()
	u := siteURL(t)

	store, err := OpenAt(root, "carol")
	if err != nil {
		t.Fatal(err)
	}
	store.Jar().SetCookies(u, []*http.Cookie{
		{
			Name:    "sessionid",
			Value:   "stale",
			Path:    "/",
			Expires: time.Now().Add(time.Minute),
		},
	})
	err = store.Save()
	if err != nil {
		t.Fatal(err)
	}

	// rewrite the file with an expiry in the past
	path := filepath.Join(root, cacheDirName, "carol", "cookies")
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var cookies []persistedCookie
	err = json.Unmarshal(contents, &cookies)
	if err != nil {
		t.Fatal(err)
	}
	for i := range cookies {
		cookies[i].Expires = time.Now().Add(-time.Hour)
	}
	updated, err := json.Marshal(cookies)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(path, updated, 0o600)
	if err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenAt(root, "carol")
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, reopened.Jar().Cookies(u))
}

func TestCorruptSessionFileIgnored(t *testing.T) {
	root := t.TempDir()

	store, err := OpenAt(root, "dave")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, cacheDirName, "dave", "cookies")
	err = os.WriteFile(path, []byte("not json"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	store, err = OpenAt(root, "dave")
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, store.Jar().Cookies(siteURL(t)))
}
