package model

import "time"

// Reminder is one scheduled notice ahead of an event start.
type Reminder struct {
	At            time.Time `json:"at"`
	MinutesBefore int       `json:"minutesBefore"`
}
