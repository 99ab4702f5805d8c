package idonethis

import (
	"net/url"
	"regexp"
)

type loginOutcome int

const (
	atLoginPage loginOutcome = iota
	atHome
	atCalendarRoot
	unrecognized
)

type loginLocation struct {
	outcome  loginOutcome
	calendar string
}

var loginPagePattern = regexp.MustCompile(`/login/?$`)
var homePattern = regexp.MustCompile(`/home/?$`)
var calendarRootPattern = regexp.MustCompile(`/cal/([\w-]+)/?$`)

// classifyLocation decides where a login attempt landed from the shape of
// the final post-redirect URL. The order matters: the login page check has
// to come before the catch-all so a bounced login reads as bad credentials
// instead of an unexpected URL.
func classifyLocation(u *url.URL) loginLocation {
	path := u.Path
	if loginPagePattern.MatchString(path) {
		return loginLocation{outcome: atLoginPage}
	}
	if homePattern.MatchString(path) {
		return loginLocation{outcome: atHome}
	}
	groups := calendarRootPattern.FindStringSubmatch(path)
	if groups == nil {
		return loginLocation{outcome: unrecognized}
	}
	return loginLocation{outcome: atCalendarRoot, calendar: groups[1]}
}
