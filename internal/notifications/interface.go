package notifications

import "github.com/scaile/openanalytics/internal/models"

// NotificationInterface defines the contract for report delivery channels
type NotificationInterface interface {
	SendReport(result *models.MasterResult) error
	SendAlert(alert *models.Alert) error
}
