package idonethis

import (
	"idonethis-client/lib/restyutil"
)

var restyOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes clients constructed afterwards dump their
// raw http traffic to the given output.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyOutput = out
}
