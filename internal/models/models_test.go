package models

import (
	"testing"
)

func TestTimeLimitRemaining(t *testing.T) {
	tests := []struct {
		name         string
		limit        TimeLimit
		wantLeft     int
		wantExceeded bool
		wantPercent  int
	}{
		{
			name:         "partly used",
			limit:        TimeLimit{LimitMinutes: 60, UsedMinutes: 27},
			wantLeft:     33,
			wantExceeded: false,
			wantPercent:  45,
		},
		{
			name:         "exactly used up",
			limit:        TimeLimit{LimitMinutes: 30, UsedMinutes: 30},
			wantLeft:     0,
			wantExceeded: true,
			wantPercent:  100,
		},
		{
			name:         "over the limit",
			limit:        TimeLimit{LimitMinutes: 30, UsedMinutes: 45},
			wantLeft:     0,
			wantExceeded: true,
			wantPercent:  100,
		},
		{
			name:         "unused",
			limit:        TimeLimit{LimitMinutes: 90},
			wantLeft:     90,
			wantExceeded: false,
			wantPercent:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.limit.RemainingMinutes(); got != tt.wantLeft {
				t.Errorf("RemainingMinutes() = %d, want %d", got, tt.wantLeft)
			}
			if got := tt.limit.IsExceeded(); got != tt.wantExceeded {
				t.Errorf("IsExceeded() = %v, want %v", got, tt.wantExceeded)
			}
			if got := tt.limit.PercentUsed(); got != tt.wantPercent {
				t.Errorf("PercentUsed() = %d, want %d", got, tt.wantPercent)
			}
		})
	}
}

func TestSessionIsAuthenticated(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    bool
	}{
		{name: "token and user", session: Session{Token: "t", User: &User{ID: "u"}}, want: true},
		{name: "user without token", session: Session{User: &User{ID: "u"}}, want: false},
		{name: "empty", session: Session{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.IsAuthenticated(); got != tt.want {
				t.Errorf("IsAuthenticated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBedtimeValidate(t *testing.T) {
	tests := []struct {
		name     string
		schedule BedtimeSchedule
		wantErr  bool
	}{
		{
			name:     "valid",
			schedule: BedtimeSchedule{Days: []string{"M"}, StartTime: "22:00", EndTime: "07:00"},
		},
		{
			name:     "bad hour",
			schedule: BedtimeSchedule{Days: []string{"M"}, StartTime: "25:00", EndTime: "07:00"},
			wantErr:  true,
		},
		{
			name:     "short form",
			schedule: BedtimeSchedule{Days: []string{"M"}, StartTime: "9:00", EndTime: "07:00"},
			wantErr:  true,
		},
		{
			name:     "no days",
			schedule: BedtimeSchedule{StartTime: "22:00", EndTime: "07:00"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDaysLabel(t *testing.T) {
	week := BedtimeSchedule{Days: []string{"Su", "M", "Tu", "W", "Th", "F", "Sa"}}
	if got := week.DaysLabel(); got != "Every day" {
		t.Errorf("DaysLabel() = %q", got)
	}
	school := BedtimeSchedule{Days: []string{"M", "Tu"}}
	if got := school.DaysLabel(); got != "M, Tu" {
		t.Errorf("DaysLabel() = %q", got)
	}
}

func TestUserDisplayName(t *testing.T) {
	var nilUser *User
	tests := []struct {
		name string
		user *User
		want string
	}{
		{name: "nil", user: nilUser, want: "Parent"},
		{name: "name", user: &User{Name: "Demo User", Email: "demo@filternet.com"}, want: "Demo User"},
		{name: "email only", user: &User{Email: "demo@filternet.com"}, want: "demo@filternet.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppStatusValid(t *testing.T) {
	for _, s := range []AppStatus{AppBlocked, AppAllowed, AppLimited} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if AppStatus("paused").Valid() {
		t.Error("unknown status should be invalid")
	}
}
