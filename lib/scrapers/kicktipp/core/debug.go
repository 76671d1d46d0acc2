package core

import (
	"tippassist-backend/lib/restyutil"
)

var debugOutput restyutil.DumpOutput

// SetDebugOutput makes every client created afterwards dump its HTTP
// exchanges to the output. Debugging aid for scraper development.
func SetDebugOutput(out restyutil.DumpOutput) {
	debugOutput = out
}
