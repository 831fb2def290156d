package models

import (
	"fmt"
	"strings"
)

// BedtimeSchedule blocks internet access between StartTime and EndTime
// ("HH:MM") on the listed days
type BedtimeSchedule struct {
	ID        string   `json:"id"`
	MemberID  string   `json:"memberId"`
	Days      []string `json:"days"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	IsActive  bool     `json:"isActive"`
}

// DaysLabel renders the day list, collapsing a full week to "Every day"
func (b BedtimeSchedule) DaysLabel() string {
	if len(b.Days) == 7 {
		return "Every day"
	}
	return strings.Join(b.Days, ", ")
}

// Validate checks the time window format
func (b BedtimeSchedule) Validate() error {
	for _, t := range []string{b.StartTime, b.EndTime} {
		var h, m int
		if _, err := fmt.Sscanf(t, "%d:%d", &h, &m); err != nil || len(t) != 5 || h < 0 || h > 23 || m < 0 || m > 59 {
			return fmt.Errorf("invalid time %q, expected HH:MM", t)
		}
	}
	if len(b.Days) == 0 {
		return fmt.Errorf("schedule needs at least one day")
	}
	return nil
}
