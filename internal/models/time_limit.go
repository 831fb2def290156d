package models

// TimeLimit is a daily usage cap for one app of one member
type TimeLimit struct {
	ID           string `json:"id"`
	MemberID     string `json:"memberId"`
	App          string `json:"app"`
	AppID        string `json:"appId"`
	Icon         string `json:"icon"`
	LimitMinutes int    `json:"limit"`
	UsedMinutes  int    `json:"used"`
}

// RemainingMinutes returns the minutes left today, never negative
func (l TimeLimit) RemainingMinutes() int {
	if l.UsedMinutes >= l.LimitMinutes {
		return 0
	}
	return l.LimitMinutes - l.UsedMinutes
}

// IsExceeded reports whether the limit has been used up
func (l TimeLimit) IsExceeded() bool {
	return l.UsedMinutes >= l.LimitMinutes
}

// PercentUsed returns usage as a percentage capped at 100
func (l TimeLimit) PercentUsed() int {
	if l.LimitMinutes <= 0 {
		return 100
	}
	pct := l.UsedMinutes * 100 / l.LimitMinutes
	if pct > 100 {
		return 100
	}
	return pct
}

// DailyUsage is the overall screen time budget of a day
type DailyUsage struct {
	Limit int `json:"limit"`
	Used  int `json:"used"`
}

// AppUsage is the time spent in one app
type AppUsage struct {
	App  string `json:"app"`
	Used int    `json:"used"`
}

// Usage is the current usage report of a member
type Usage struct {
	Daily DailyUsage `json:"daily"`
	Apps  []AppUsage `json:"apps"`
}

// DailyLimitRequest sets the overall daily budget of a member
type DailyLimitRequest struct {
	MemberID string `json:"memberId"`
	Minutes  int    `json:"limit"`
}

// AppLimitRequest sets a per-app budget
type AppLimitRequest struct {
	MemberID string `json:"memberId"`
	AppID    string `json:"appId"`
	Minutes  int    `json:"limit"`
}
