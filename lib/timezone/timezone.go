package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
}

// kickoff times on the site are rendered in German local time with no
// offset, so every parsed timestamp must be pinned to Europe/Berlin no
// matter where the process happens to run
func Now() time.Time {
	return time.Now().In(Location)
}
