package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"golang.org/x/sync/errgroup"

	"filternet/internal/api"
	"filternet/internal/catalog"
	"filternet/internal/models"
)

// ErrNoRecipient is returned when the signed-in user has no e-mail address
var ErrNoRecipient = errors.New("no e-mail address for digest")

// Digest is the activity summary mailed to a parent
type Digest struct {
	AppName      string
	Recipient    models.User
	Overview     models.Overview
	Alerts       []models.Alert
	Blocks       []models.BlockEvent
	Stats        models.OverviewStats
	DashboardURL string
	Generated    time.Time
}

// AlertService builds and sends alert digests
type AlertService struct {
	email   *EmailService
	appName string
	now     func() time.Time
}

// NewAlertService creates an alert service sending through email
func NewAlertService(email *EmailService, appName string) *AlertService {
	return &AlertService{email: email, appName: appName, now: time.Now}
}

// Enabled reports whether digests can be mailed
func (s *AlertService) Enabled() bool {
	return s.email.IsEnabled()
}

// BuildDigest collects the overview, alerts, recent blocks and client stats
// for user. Any failed read fails the digest.
func (s *AlertService) BuildDigest(ctx context.Context, f *api.Facades, user models.User) (*Digest, error) {
	d := &Digest{
		AppName:      s.appName,
		Recipient:    user,
		DashboardURL: s.email.AppBaseURL() + "/dashboard",
		Generated:    s.now(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		overview, err := f.Dashboard.GetOverview(ctx)
		if err == nil {
			d.Overview = *overview
		}
		return err
	})
	g.Go(func() error {
		alerts, err := f.Dashboard.GetAlerts(ctx)
		d.Alerts = alerts
		return err
	})
	g.Go(func() error {
		blocks, err := f.Dashboard.GetRecentBlocks(ctx, api.DefaultRecentBlocks)
		d.Blocks = blocks
		return err
	})
	g.Go(func() error {
		clients, err := f.Clients.GetAllClients(ctx)
		if err == nil {
			d.Stats = catalog.ComputeStats(clients)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build digest: %w", err)
	}
	return d, nil
}

// SendDigest builds the digest for user and mails it
func (s *AlertService) SendDigest(ctx context.Context, f *api.Facades, user models.User) (*Digest, error) {
	if user.Email == "" {
		return nil, ErrNoRecipient
	}
	d, err := s.BuildDigest(ctx, f, user)
	if err != nil {
		return nil, err
	}
	subject, htmlBody, textBody, err := RenderDigest(d)
	if err != nil {
		return nil, err
	}
	if err := s.email.Send(ctx, user.Email, subject, htmlBody, textBody); err != nil {
		return nil, err
	}
	return d, nil
}

// RenderDigest returns the subject, HTML body and text body of d
func RenderDigest(d *Digest) (subject, htmlBody, textBody string, err error) {
	subject = fmt.Sprintf("%s: %d sites blocked today", d.AppName, d.Overview.SitesBlockedToday)

	var html, text bytes.Buffer
	if err := digestHTML.Execute(&html, d); err != nil {
		return "", "", "", fmt.Errorf("failed to render digest: %w", err)
	}
	if err := digestText.Execute(&text, d); err != nil {
		return "", "", "", fmt.Errorf("failed to render digest: %w", err)
	}
	return subject, html.String(), text.String(), nil
}

var digestHTML = htmltemplate.Must(htmltemplate.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4f46e5; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4f46e5; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>{{.AppName}} daily digest</h1>
		</div>
		<div class="content">
			<p>Hi {{.Recipient.DisplayName}},</p>
			<ul>
				<li><strong>{{.Stats.Devices}}</strong> protected devices, {{.Stats.ActiveDevices}} active</li>
				<li><strong>{{.Stats.TotalBlocked}}</strong> blocked services</li>
				<li><strong>{{.Overview.SitesBlockedToday}}</strong> sites blocked today</li>
				<li>Total screen time: {{.Overview.TotalScreenTime}}</li>
			</ul>
			{{if .Alerts}}<h3>Alerts</h3>
			<ul>{{range .Alerts}}
				<li>{{.Member}}: {{.App}} ({{.Type}}, {{.Time}})</li>{{end}}
			</ul>{{end}}
			{{if .Blocks}}<h3>Recently blocked</h3>
			<ul>{{range .Blocks}}
				<li>{{.Domain}} ({{.Time}})</li>{{end}}
			</ul>{{end}}
			<p style="text-align: center;">
				<a href="{{.DashboardURL}}" class="button">Open dashboard</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from {{.AppName}}. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`))

var digestText = texttemplate.Must(texttemplate.New("digest").Parse(`Hi {{.Recipient.DisplayName}},

{{.Stats.Devices}} protected devices, {{.Stats.ActiveDevices}} active
{{.Stats.TotalBlocked}} blocked services
{{.Overview.SitesBlockedToday}} sites blocked today
Total screen time: {{.Overview.TotalScreenTime}}
{{if .Alerts}}
Alerts:
{{range .Alerts}}- {{.Member}}: {{.App}} ({{.Type}}, {{.Time}})
{{end}}{{end}}{{if .Blocks}}
Recently blocked:
{{range .Blocks}}- {{.Domain}} ({{.Time}})
{{end}}{{end}}
Open dashboard: {{.DashboardURL}}

---
This is an automated email from {{.AppName}}. Please do not reply.
`))
