package timezone

import "time"

var Location = time.UTC

// wordpress.org renders review dates and "last updated" stamps in UTC, so
// cutoff windows and report directory names are pinned to UTC no matter
// where the process happens to run.
func Now() time.Time {
	return time.Now().In(Location)
}
