// Package notifications delivers finished analyses to the configured
// channels: a JSON webhook, SMTP email, or both.
package notifications

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/scaile/openanalytics/internal/config"
	"github.com/scaile/openanalytics/internal/models"
	"github.com/scaile/openanalytics/internal/reports"
)

// Service sends reports and alerts via the configured channels.
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendReport delivers a completed analysis via every configured channel.
// Channel failures are collected so one broken channel never blocks the
// others.
func (s *Service) SendReport(result *models.MasterResult) error {
	var errors []string

	if s.config.ReportWebhookURL != "" {
		if err := s.sendToWebhook(result); err != nil {
			logrus.Errorf("Failed to send report webhook: %v", err)
			errors = append(errors, fmt.Sprintf("webhook: %v", err))
		} else {
			logrus.Infof("Sent report for %s to webhook", result.Company)
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(result); err != nil {
			logrus.Errorf("Failed to send report email: %v", err)
			errors = append(errors, fmt.Sprintf("email: %v", err))
		} else {
			logrus.Infof("Sent report for %s via email", result.Company)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// SendAlert notifies about a sharp score drop on a watched target. With no
// channel configured the alert is only logged.
func (s *Service) SendAlert(alert *models.Alert) error {
	if s.config.ReportWebhookURL == "" && s.config.NotificationEmail == "" {
		logrus.Infof("No notification channel configured, alert not sent: %s", alert.Message)
		return nil
	}

	var errors []string

	if s.config.ReportWebhookURL != "" {
		resp, err := s.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(alert).
			Post(s.config.ReportWebhookURL)
		switch {
		case err != nil:
			errors = append(errors, fmt.Sprintf("webhook: %v", err))
		case resp.StatusCode() >= 300:
			errors = append(errors, fmt.Sprintf("webhook: status %d", resp.StatusCode()))
		}
	}

	if s.config.NotificationEmail != "" {
		subject := fmt.Sprintf("Alert: %s combined score dropped to %.1f", alert.Company, alert.CurrentScore)
		body := fmt.Sprintf("%s\n\nPrevious score: %.1f\nCurrent score: %.1f\nTarget: %s\n",
			alert.Message, alert.PreviousScore, alert.CurrentScore, alert.Target)

		m := gomail.NewMessage()
		m.SetHeader("From", s.config.SMTPUsername)
		m.SetHeader("To", s.config.NotificationEmail)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", body)

		d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
		if err := d.DialAndSend(m); err != nil {
			errors = append(errors, fmt.Sprintf("email: %v", err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("alert errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToWebhook(result *models.MasterResult) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(result).
		Post(s.config.ReportWebhookURL)
	if err != nil {
		return fmt.Errorf("failed to post report: %w", err)
	}

	if resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) sendEmail(result *models.MasterResult) error {
	subject := fmt.Sprintf("AEO Report - %s (score %.1f, grade %s)",
		result.Company, result.CombinedScore, result.CombinedGrade)

	// Light theme renders reliably across mail clients.
	htmlBody, err := reports.RenderHTML(result, reports.Options{Theme: reports.ThemeLight})
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", buildEmailText(result))
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func buildEmailText(result *models.MasterResult) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("AEO Visibility Report - %s\n", result.Company))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", result.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SCORES\n")
	text.WriteString("======\n")
	text.WriteString(fmt.Sprintf("Combined: %.1f (%s)\n", result.CombinedScore, result.CombinedGrade))
	if result.Health != nil {
		text.WriteString(fmt.Sprintf("Website Health: %.1f (%s)\n", result.Health.Score, result.Health.Grade))
	}
	if result.Mentions != nil {
		text.WriteString(fmt.Sprintf("AI Visibility: %.1f (%s)\n", result.Mentions.VisibilityScore, result.Mentions.Band))
	}

	if result.Mentions != nil && len(result.Mentions.PlatformStats) > 0 {
		text.WriteString("\nPLATFORMS\n")
		text.WriteString("=========\n")

		names := make([]string, 0, len(result.Mentions.PlatformStats))
		for name := range result.Mentions.PlatformStats {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			stats := result.Mentions.PlatformStats[name]
			text.WriteString(fmt.Sprintf("%s: %d mentions in %d responses (quality %.1f)\n",
				name, stats.Mentions, stats.Responses, stats.QualityScore))
		}
	}

	if len(result.StrategicRecommendations) > 0 {
		text.WriteString("\nRECOMMENDATIONS\n")
		text.WriteString("===============\n")
		for i, rec := range result.StrategicRecommendations {
			text.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
	}

	text.WriteString("\n---\nThis report was generated automatically by OpenAnalytics.\n")

	return text.String()
}
