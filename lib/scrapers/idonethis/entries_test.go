package idonethis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"idonethis-client/lib/timezone"
)

func TestDecodeEntries(t *testing.T) {
	body := `[
		{
			"id": 41,
			"owner": "alice",
			"done_date": "2024-08-26",
			"text": "a &amp; b &gt; c",
			"calendar": {"short_name": "alice", "name": "alice", "type": "personal"}
		},
		{
			"id": 42,
			"owner": "alice",
			"done_date": "2024-08-26",
			"text": null
		}
	]`

	entries, err := decodeEntries([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, entries, 2)

	require.NotNil(t, entries[0].Text)
	require.Equal(t, "a & b > c", *entries[0].Text)
	require.Equal(t, "alice", entries[0].Calendar.ShortName)

	// absent text stays absent, it must not turn into ""
	require.Nil(t, entries[1].Text)
}

func TestDecodeEntriesMalformed(t *testing.T) {
	_, err := decodeEntries([]byte(`{"not": "an array"`))
	require.Error(t, err)
}

func TestNewSubmission(t *testing.T) {
	c := &Client{Username: "bob", Calendar: "bob"}

	sub := c.newSubmission("hello", "")
	require.Equal(t, "hello", sub.Text)
	require.Equal(t, "bob", sub.Owner)
	require.Equal(t, "bob", sub.Calendar)
	require.Equal(t, timezone.Today(), sub.DoneDate)

	sub = c.newSubmission("hello", "2024-08-01")
	require.Equal(t, "2024-08-01", sub.DoneDate)
}

func TestSubmissionWireShape(t *testing.T) {
	c := &Client{Username: "bob", Calendar: "bob"}

	contents, err := json.Marshal(c.newSubmission("hello", "2024-08-01"))
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	err = json.Unmarshal(contents, &decoded)
	if err != nil {
		t.Fatal(err)
	}

	// the service wants these present and null on every write
	for _, key := range []string{"total_comments", "total_likes", "url"} {
		v, present := decoded[key]
		require.True(t, present, "key %q", key)
		require.Nil(t, v, "key %q", key)
	}
	require.Equal(t, "hello", decoded["text"])
	require.Equal(t, "2024-08-01", decoded["done_date"])
}
