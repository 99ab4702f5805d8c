package sessionstore

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"
)

// Jar is an http.CookieJar that remembers every cookie the server sets so
// the session can be written to disk and restored later. Matching and
// expiry semantics are delegated to a net/http/cookiejar.Jar underneath;
// this type only keeps the raw set-cookie data around, since the stdlib
// jar has no way to enumerate its contents.
type Jar struct {
	mu      sync.Mutex
	inner   *cookiejar.Jar
	entries map[string]map[string]persistedCookie
}

type persistedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

func NewJar() (*Jar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Jar{
		inner:   inner,
		entries: map[string]map[string]persistedCookie{},
	}, nil
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	for _, c := range cookies {
		domain := c.Domain
		if domain == "" {
			domain = u.Hostname()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}

		byName := j.entries[domain]
		if byName == nil {
			byName = map[string]persistedCookie{}
			j.entries[domain] = byName
		}

		// MaxAge<0 or a past Expires is the server deleting the cookie
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(byName, c.Name)
			continue
		}

		expires := c.Expires
		if c.MaxAge > 0 {
			expires = time.Now().Add(time.Duration(c.MaxAge) * time.Second)
		}
		byName[c.Name] = persistedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   domain,
			Path:     path,
			Expires:  expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
	}
	j.mu.Unlock()

	j.inner.SetCookies(u, cookies)
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	return j.inner.Cookies(u)
}

func (j *Jar) snapshot() []persistedCookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []persistedCookie
	for _, byName := range j.entries {
		for _, c := range byName {
			out = append(out, c)
		}
	}
	return out
}

func (j *Jar) restore(cookies []persistedCookie) {
	now := time.Now()
	for _, c := range cookies {
		if !c.Expires.IsZero() && c.Expires.Before(now) {
			continue
		}
		scheme := "http"
		if c.Secure {
			scheme = "https"
		}
		j.SetCookies(
			&url.URL{Scheme: scheme, Host: c.Domain, Path: c.Path},
			[]*http.Cookie{{
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				Expires:  c.Expires,
				Secure:   c.Secure,
				HttpOnly: c.HttpOnly,
			}},
		)
	}
}
