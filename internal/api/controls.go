package api

import (
	"context"
	"net/url"
	"strconv"

	"filternet/internal/models"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

type timeLimitClient struct {
	g *Gateway
}

func (c *timeLimitClient) GetLimits(ctx context.Context, memberID string) ([]models.TimeLimit, error) {
	var limits []models.TimeLimit
	if err := c.g.Get(ctx, withQuery("/time-limits", "memberId", memberID), &limits); err != nil {
		return nil, err
	}
	return limits, nil
}

func (c *timeLimitClient) SetDailyLimit(ctx context.Context, memberID string, minutes int) error {
	req := models.DailyLimitRequest{MemberID: memberID, Minutes: minutes}
	return c.g.Post(ctx, "/time-limits/daily", req, nil)
}

func (c *timeLimitClient) SetAppLimit(ctx context.Context, memberID, appID string, minutes int) (*models.TimeLimit, error) {
	req := models.AppLimitRequest{MemberID: memberID, AppID: appID, Minutes: minutes}
	var limit models.TimeLimit
	if err := c.g.Post(ctx, "/time-limits/app", req, &limit); err != nil {
		return nil, err
	}
	return &limit, nil
}

func (c *timeLimitClient) UpdateLimit(ctx context.Context, limitID string, limit models.TimeLimit) (*models.TimeLimit, error) {
	var updated models.TimeLimit
	if err := c.g.Put(ctx, "/time-limits/"+url.PathEscape(limitID), limit, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *timeLimitClient) DeleteLimit(ctx context.Context, limitID string) error {
	return c.g.Delete(ctx, "/time-limits/"+url.PathEscape(limitID))
}

func (c *timeLimitClient) GetCurrentUsage(ctx context.Context, memberID, date string) (*models.Usage, error) {
	var usage models.Usage
	if err := c.g.Get(ctx, withQuery("/time-limits/usage", "memberId", memberID, "date", date), &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

type contentFilterClient struct {
	g *Gateway
}

func (c *contentFilterClient) GetRules(ctx context.Context, memberID string) (*models.ContentRules, error) {
	var rules models.ContentRules
	if err := c.g.Get(ctx, withQuery("/content-filter/rules", "memberId", memberID), &rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (c *contentFilterClient) GetAvailableApps(ctx context.Context) ([]models.App, error) {
	var apps []models.App
	if err := c.g.Get(ctx, "/content-filter/apps", &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *contentFilterClient) UpdateAppStatus(ctx context.Context, memberID, appID string, status models.AppStatus) error {
	body := map[string]any{"memberId": memberID, "status": status}
	return c.g.Put(ctx, "/content-filter/apps/"+url.PathEscape(appID), body, nil)
}

func (c *contentFilterClient) BlockWebsite(ctx context.Context, memberID, site string) (*models.BlockedWebsite, error) {
	body := map[string]any{"memberId": memberID, "url": site, "action": "block"}
	var blocked models.BlockedWebsite
	if err := c.g.Post(ctx, "/content-filter/websites", body, &blocked); err != nil {
		return nil, err
	}
	return &blocked, nil
}

func (c *contentFilterClient) GetBlockedWebsites(ctx context.Context, memberID string) ([]models.BlockedWebsite, error) {
	var sites []models.BlockedWebsite
	if err := c.g.Get(ctx, withQuery("/content-filter/websites", "memberId", memberID), &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

func (c *contentFilterClient) UpdateCategoryStatus(ctx context.Context, memberID, categoryID string, blocked bool) error {
	body := map[string]any{"memberId": memberID, "isBlocked": blocked}
	return c.g.Put(ctx, "/content-filter/categories/"+url.PathEscape(categoryID), body, nil)
}

func (c *contentFilterClient) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.g.Get(ctx, "/content-filter/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *contentFilterClient) UpdateProfile(ctx context.Context, memberID string, profile models.Profile) error {
	body := map[string]any{"memberId": memberID, "profile": profile}
	return c.g.Put(ctx, "/content-filter/profile", body, nil)
}

type activityClient struct {
	g *Gateway
}

func (c *activityClient) GetActivity(ctx context.Context, memberID, date string) (*models.Activity, error) {
	var activity models.Activity
	if err := c.g.Get(ctx, withQuery("/activity", "memberId", memberID, "date", date), &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (c *activityClient) GetSummary(ctx context.Context, memberID, start, end string) (*models.ActivitySummary, error) {
	var summary models.ActivitySummary
	if err := c.g.Get(ctx, withQuery("/activity/summary", "memberId", memberID, "start", start, "end", end), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *activityClient) GetTopApps(ctx context.Context, memberID, date string) ([]models.AppTime, error) {
	var apps []models.AppTime
	if err := c.g.Get(ctx, withQuery("/activity/top-apps", "memberId", memberID, "date", date), &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *activityClient) GetByCategory(ctx context.Context, memberID, date string) ([]models.CategoryTime, error) {
	var categories []models.CategoryTime
	if err := c.g.Get(ctx, withQuery("/activity/by-category", "memberId", memberID, "date", date), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

type bedtimeClient struct {
	g *Gateway
}

func (c *bedtimeClient) GetSchedules(ctx context.Context, memberID string) ([]models.BedtimeSchedule, error) {
	var schedules []models.BedtimeSchedule
	if err := c.g.Get(ctx, withQuery("/bedtime/schedules", "memberId", memberID), &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (c *bedtimeClient) CreateSchedule(ctx context.Context, memberID string, schedule models.BedtimeSchedule) (*models.BedtimeSchedule, error) {
	schedule.MemberID = memberID
	var created models.BedtimeSchedule
	if err := c.g.Post(ctx, "/bedtime/schedules", schedule, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *bedtimeClient) UpdateSchedule(ctx context.Context, scheduleID string, schedule models.BedtimeSchedule) (*models.BedtimeSchedule, error) {
	var updated models.BedtimeSchedule
	if err := c.g.Put(ctx, "/bedtime/schedules/"+url.PathEscape(scheduleID), schedule, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *bedtimeClient) DeleteSchedule(ctx context.Context, scheduleID string) error {
	return c.g.Delete(ctx, "/bedtime/schedules/"+url.PathEscape(scheduleID))
}

func (c *bedtimeClient) ToggleSchedule(ctx context.Context, scheduleID string, active bool) error {
	body := map[string]bool{"isActive": active}
	return c.g.Put(ctx, "/bedtime/schedules/"+url.PathEscape(scheduleID)+"/toggle", body, nil)
}
