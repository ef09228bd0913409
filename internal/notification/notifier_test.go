package notification

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admissions-platform/internal/common/config"
	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/models"
)

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
	calls         []*ses.SendEmailInput
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.calls = append(m.calls, params)
	if m.SendEmailFunc == nil {
		return &ses.SendEmailOutput{}, nil
	}
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	calls       []*sns.PublishInput
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls = append(m.calls, params)
	if m.PublishFunc == nil {
		return &sns.PublishOutput{}, nil
	}
	return m.PublishFunc(ctx, params, optFns...)
}

func createTestConfig(email, sms bool) config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.Email.Enabled = email
	cfg.Email.FromEmail = "noreply@admissions.example.com"
	cfg.SMS.Enabled = sms
	return cfg
}

func createTestMessage() Message {
	booking := &models.Booking{
		ID:          "booking-001",
		Status:      models.BookingConfirmed,
		ScheduledAt: time.Date(2026, time.November, 3, 17, 0, 0, 0, time.UTC),
		Topic:       "Essay review",
	}
	student := &models.User{Name: "Ana", Email: "ana@example.com", Phone: "+15555550100"}
	mentor := &models.Mentor{Name: "Priya Raman", Email: "priya@example.com"}
	return BookingMessage(booking, student, mentor)
}

func TestNotifier_SendsEmailAndSMS(t *testing.T) {
	sesMock := &MockSESService{}
	snsMock := &MockSNSService{}
	n := NewNotifier(createTestConfig(true, true), sesMock, snsMock, logger.NewTestLogger(t))

	result, err := n.Send(context.Background(), createTestMessage())
	require.NoError(t, err)

	assert.Equal(t, StatusSent, result.Status)
	assert.NotEmpty(t, result.NotificationID)
	assert.Equal(t, []string{ChannelEmail, ChannelSMS}, result.Channels)

	require.Len(t, sesMock.calls, 2, "student and mentor both get email")
	assert.Equal(t, "Mentoring session confirmed", *sesMock.calls[0].Message.Subject.Data)
	assert.Equal(t, "Hi Ana, Priya Raman confirmed your session on Nov 3, 2026 17:00 UTC.", *sesMock.calls[0].Message.Body.Text.Data)
	assert.Equal(t, "noreply@admissions.example.com", *sesMock.calls[0].Source)

	require.Len(t, snsMock.calls, 1, "only the student has a phone")
	assert.Equal(t, "+15555550100", *snsMock.calls[0].PhoneNumber)
}

func TestNotifier_ChannelFilter(t *testing.T) {
	sesMock := &MockSESService{}
	snsMock := &MockSNSService{}
	n := NewNotifier(createTestConfig(true, true), sesMock, snsMock, logger.NewNoOpLogger())

	msg := createTestMessage()
	msg.Channels = []string{"SMS"}
	result, err := n.Send(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, []string{ChannelSMS}, result.Channels)
	assert.Empty(t, sesMock.calls)
}

func TestNotifier_Disabled(t *testing.T) {
	tests := []struct {
		name string
		n    *Notifier
	}{
		{"config off", NewNotifier(createTestConfig(false, false), &MockSESService{}, &MockSNSService{}, logger.NewNoOpLogger())},
		{"no clients", NewNotifier(createTestConfig(true, true), nil, nil, logger.NewNoOpLogger())},
		{"nil notifier", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.n.Send(context.Background(), createTestMessage())
			require.NoError(t, err)
			assert.Equal(t, StatusDisabled, result.Status)
			assert.NotEmpty(t, result.NotificationID)
		})
	}
}

func TestNotifier_SendFailure(t *testing.T) {
	sesMock := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, stderrors.New("throttled")
		},
	}
	n := NewNotifier(createTestConfig(true, false), sesMock, nil, logger.NewNoOpLogger())

	result, err := n.Send(context.Background(), createTestMessage())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, result.Status)

	stdErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestNotifier_PartialFailure(t *testing.T) {
	sesMock := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			if params.Destination.ToAddresses[0] == "priya@example.com" {
				return nil, stderrors.New("mailbox unavailable")
			}
			return &ses.SendEmailOutput{}, nil
		},
	}
	n := NewNotifier(createTestConfig(true, false), sesMock, nil, logger.NewNoOpLogger())

	result, err := n.Send(context.Background(), createTestMessage())
	require.Error(t, err)
	require.Len(t, sesMock.calls, 2)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, []string{ChannelEmail}, result.Channels)

	stdErr, ok := errors.As(err)
	require.True(t, ok)
	assert.False(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "delivered: email")
}

func TestNotifier_UnknownType(t *testing.T) {
	n := NewNotifier(createTestConfig(true, false), &MockSESService{}, nil, logger.NewNoOpLogger())

	_, err := n.Send(context.Background(), Message{Type: "newsletter"})
	require.Error(t, err)
}

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		data map[string]interface{}
		want string
	}{
		{"replaces known keys", "Hi {{name}}, you have {{count}} items", map[string]interface{}{"name": "Ana", "count": 3}, "Hi Ana, you have 3 items"},
		{"drops unknown keys", "Hi {{name}}{{missing}}!", map[string]interface{}{"name": "Ana"}, "Hi Ana!"},
		{"nil value renders empty", "Topic: {{topic}}", map[string]interface{}{"topic": nil}, "Topic: "},
		{"unterminated placeholder kept", "Hi {{name", nil, "Hi {{name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderTemplate(tt.tmpl, tt.data))
		})
	}
}

func TestTypeForStatus(t *testing.T) {
	assert.Equal(t, TypeBookingRequested, TypeForStatus(models.BookingPending))
	assert.Equal(t, TypeBookingConfirmed, TypeForStatus(models.BookingConfirmed))
	assert.Equal(t, TypeBookingCancelled, TypeForStatus(models.BookingCancelled))
	assert.Equal(t, TypeBookingCompleted, TypeForStatus(models.BookingCompleted))
}
