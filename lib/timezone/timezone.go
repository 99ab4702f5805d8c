package timezone

import (
	"os"
	"time"
)

const DateLayout = "2006-01-02"

var Location = time.Local

func init() {
	// journal dates are calendar dates in the account owner's day, so the
	// host timezone is the right default. override for servers that are
	// pinned to UTC but act on behalf of a user somewhere else.
	name := os.Getenv("IDONETHIS_TZ")
	if name == "" {
		return
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	Location = loc
}

func Now() time.Time {
	return time.Now().In(Location)
}

// FormatDate renders the calendar date of t in the wire format,
// e.g. "2024-08-26".
func FormatDate(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

func Today() string {
	return FormatDate(Now())
}
