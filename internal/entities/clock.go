package entities

import "time"

// NowMillis returns the current time in Unix milliseconds, the unit every
// created_time/updated_time column stores.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
