package idonethis

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyLocation(t *testing.T) {
	cases := []struct {
		url      string
		outcome  loginOutcome
		calendar string
	}{
		{url: "https://idonethis.com/accounts/login/", outcome: atLoginPage},
		{url: "https://idonethis.com/accounts/login", outcome: atLoginPage},
		{url: "https://idonethis.com/home/", outcome: atHome},
		{url: "https://idonethis.com/home", outcome: atHome},
		{url: "https://idonethis.com/cal/alice/", outcome: atCalendarRoot, calendar: "alice"},
		{url: "https://idonethis.com/cal/daily-log", outcome: atCalendarRoot, calendar: "daily-log"},
		{url: "https://idonethis.com/", outcome: unrecognized},
		{url: "https://idonethis.com/somewhere/else/", outcome: unrecognized},
		// the login check must win over the calendar-root shape, this
		// url would otherwise read as a calendar named "login"
		{url: "https://idonethis.com/cal/login/", outcome: atLoginPage},
	}

	for _, test := range cases {
		u, err := url.Parse(test.url)
		if err != nil {
			t.Fatal(err)
		}
		loc := classifyLocation(u)
		require.Equal(t, test.outcome, loc.outcome, "url %s", test.url)
		require.Equal(t, test.calendar, loc.calendar, "url %s", test.url)
	}
}
