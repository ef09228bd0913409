// Package notification delivers booking notifications by email (SES) and SMS (SNS).
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"

	"admissions-platform/internal/common/config"
	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/common/metrics"
)

// Notification types
const (
	TypeBookingRequested = "booking_requested"
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingCancelled = "booking_cancelled"
	TypeBookingCompleted = "booking_completed"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Template struct {
	Subject string
	Body    string
}

var defaultTemplates = map[string]Template{
	TypeBookingRequested: {
		Subject: "Mentoring session requested",
		Body:    "Hi {{studentName}}, your session with {{mentorName}} on {{scheduledAt}} has been requested. Topic: {{topic}}",
	},
	TypeBookingConfirmed: {
		Subject: "Mentoring session confirmed",
		Body:    "Hi {{studentName}}, {{mentorName}} confirmed your session on {{scheduledAt}}.",
	},
	TypeBookingCancelled: {
		Subject: "Mentoring session cancelled",
		Body:    "Hi {{studentName}}, your session with {{mentorName}} on {{scheduledAt}} was cancelled.",
	},
	TypeBookingCompleted: {
		Subject: "How was your mentoring session?",
		Body:    "Hi {{studentName}}, thanks for meeting with {{mentorName}}. Your action plan has been updated.",
	},
}

type Recipient struct {
	Email string
	Phone string
}

type Message struct {
	Type       string
	Recipients []Recipient
	// Channels restricts delivery; empty means every enabled channel.
	Channels []string
	Data     map[string]interface{}
}

type Result struct {
	NotificationID string    `json:"notificationId"`
	Status         string    `json:"status"`
	Channels       []string  `json:"channels,omitempty"`
	SentAt         time.Time `json:"sentAt"`
}

type Notifier struct {
	emailEnabled bool
	smsEnabled   bool
	fromEmail    string
	ses          SESService
	sns          SNSService
	templates    map[string]Template
	logger       logger.Logger
}

// NewNotifier builds a notifier. A nil client disables its channel regardless of config.
func NewNotifier(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		emailEnabled: cfg.Email.Enabled && sesClient != nil,
		smsEnabled:   cfg.SMS.Enabled && snsClient != nil,
		fromEmail:    cfg.Email.FromEmail,
		ses:          sesClient,
		sns:          snsClient,
		templates:    defaultTemplates,
		logger:       log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// Send renders the message template and delivers it on every enabled channel. A delivery
// failure returns a failed result together with a NOTIFICATION_SEND_FAILED error, which is
// retryable only while nothing has been delivered yet. Channels lists what did go out.
func (n *Notifier) Send(ctx context.Context, msg Message) (*Result, error) {
	result := &Result{
		NotificationID: uuid.New().String(),
		Status:         StatusDisabled,
		SentAt:         time.Now().UTC(),
	}
	if n == nil {
		return result, nil
	}

	tmpl, ok := n.templates[msg.Type]
	if !ok {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("unknown notification type: %s", msg.Type))
	}

	subject := renderTemplate(tmpl.Subject, msg.Data)
	body := renderTemplate(tmpl.Body, msg.Data)

	if n.emailEnabled && wantsChannel(msg.Channels, ChannelEmail) {
		for _, r := range msg.Recipients {
			if r.Email == "" {
				continue
			}
			if err := n.sendEmail(ctx, r.Email, subject, body); err != nil {
				return n.failed(result, ChannelEmail, err)
			}
			result.Channels = appendOnce(result.Channels, ChannelEmail)
		}
	}

	if n.smsEnabled && wantsChannel(msg.Channels, ChannelSMS) {
		for _, r := range msg.Recipients {
			if r.Phone == "" {
				continue
			}
			if err := n.sendSMS(ctx, r.Phone, body); err != nil {
				return n.failed(result, ChannelSMS, err)
			}
			result.Channels = appendOnce(result.Channels, ChannelSMS)
		}
	}

	for _, ch := range result.Channels {
		metrics.NotificationsSent.WithLabelValues(ch, StatusSent).Inc()
	}
	if len(result.Channels) > 0 {
		result.Status = StatusSent
	}

	n.logger.Info("notification processed", map[string]interface{}{
		"notificationId": result.NotificationID,
		"type":           msg.Type,
		"status":         result.Status,
		"channels":       result.Channels,
	})
	return result, nil
}

func (n *Notifier) failed(result *Result, channel string, err error) (*Result, error) {
	metrics.NotificationsSent.WithLabelValues(channel, StatusFailed).Inc()
	n.logger.Error("notification send failed", map[string]interface{}{
		"notificationId": result.NotificationID,
		"channel":        channel,
		"error":          err.Error(),
	})
	result.Status = StatusFailed
	stdErr := errors.NewNotificationSendFailedError(channel, err)
	if len(result.Channels) > 0 {
		// A retry would resend to recipients that already got the message.
		for _, ch := range result.Channels {
			metrics.NotificationsSent.WithLabelValues(ch, StatusSent).Inc()
		}
		stdErr.Retryable = false
		stdErr.Details += fmt.Sprintf(", delivered: %s", strings.Join(result.Channels, ","))
	}
	return result, stdErr
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.fromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) error {
	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

func wantsChannel(requested []string, channel string) bool {
	if len(requested) == 0 {
		return true
	}
	for _, c := range requested {
		if strings.EqualFold(c, channel) {
			return true
		}
	}
	return false
}

func appendOnce(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

// renderTemplate replaces {{key}} placeholders from data and drops any left unresolved.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		value := ""
		switch val := v.(type) {
		case string:
			value = val
		case time.Time:
			value = val.UTC().Format("Jan 2, 2006 15:04 MST")
		case nil:
		default:
			value = fmt.Sprintf("%v", val)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}

	return result
}
