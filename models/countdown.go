// File: models/countdown.go
package models

import "time"

// Countdown is the time left until an event, split for display.
type Countdown struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Over    bool
}

// CountdownTo computes the remaining time from now until target.
// A past or zero target yields Over.
func CountdownTo(now, target time.Time) Countdown {
	if target.IsZero() || !target.After(now) {
		return Countdown{Over: true}
	}
	left := target.Sub(now)
	days := int(left / (24 * time.Hour))
	left -= time.Duration(days) * 24 * time.Hour
	hours := int(left / time.Hour)
	left -= time.Duration(hours) * time.Hour
	minutes := int(left / time.Minute)
	left -= time.Duration(minutes) * time.Minute
	return Countdown{Days: days, Hours: hours, Minutes: minutes, Seconds: int(left / time.Second)}
}
