package utils

import "time"

// Now returns the current UTC time truncated to microseconds, the precision
// Postgres keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
