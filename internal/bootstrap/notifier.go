package bootstrap

import (
	"context"

	"admissions-platform/internal/common/aws"
	"admissions-platform/internal/common/config"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/notification"
)

// NewNotifier builds SES and SNS clients only when a channel is enabled. Without AWS
// credentials the notifier still works and reports every message as disabled.
func NewNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) *notification.Notifier {
	if !cfg.Email.Enabled && !cfg.SMS.Enabled {
		return notification.NewNotifier(cfg, nil, nil, log)
	}

	clients, err := aws.NewClients(ctx, cfg.AWS.Region)
	if err != nil {
		log.Error("aws clients unavailable, notifications disabled", map[string]interface{}{"error": err})
		return notification.NewNotifier(cfg, nil, nil, log)
	}
	return notification.NewNotifier(cfg, clients.SES, clients.SNS, log)
}
