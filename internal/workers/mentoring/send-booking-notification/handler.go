// internal/workers/mentoring/send-booking-notification/handler.go
package sendbookingnotification

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/common/metrics"
	"admissions-platform/internal/common/observability"
	"admissions-platform/internal/common/validation"
	"admissions-platform/internal/models"
	"admissions-platform/internal/notification"
	"admissions-platform/internal/store"
)

const (
	TaskType = "send-booking-notification"
)

// Sender delivers a rendered notification.
type Sender interface {
	Send(ctx context.Context, msg notification.Message) (*notification.Result, error)
}

type Handler struct {
	config       *Config
	store        *store.Store
	sender       Sender
	validator    *validation.SchemaValidator
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, s *store.Store, sender Sender, validator *validation.SchemaValidator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        s,
		sender:       sender,
		validator:    validator,
		errorHandler: errors.NewErrorHandler(l),
		obs:          obs,
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.run(ctx, job.Variables)
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(start))
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
		h.obs.RecordJobProcessed(ctx, TaskType, "failed")
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.completeJob(client, job, output)
}

func (h *Handler) run(ctx context.Context, variables string) (*Output, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(variables), &raw); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	if err := h.validator.Validate(TaskType, raw); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return h.execute(ctx, &input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.BookingID) == "" {
		return nil, errors.NewValidationError("bookingId is required", errors.FieldError{
			Field:   "bookingId",
			Message: "bookingId is required",
		})
	}

	booking, err := h.store.Bookings.Get(ctx, input.BookingID)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.NewBookingNotFoundError(input.BookingID)
	}
	if err != nil {
		return nil, err
	}

	student, err := h.lookupUser(ctx, booking.StudentID)
	if err != nil {
		return nil, err
	}
	mentor, err := h.lookupMentor(ctx, booking.MentorID)
	if err != nil {
		return nil, err
	}

	if student == nil && (input.Email != "" || input.Phone != "") {
		student = &models.User{ID: booking.StudentID}
	}
	if student != nil {
		// Overrides apply to a copy so stored users are never touched.
		s := *student
		if input.Email != "" {
			s.Email = input.Email
		}
		if input.Phone != "" {
			s.Phone = input.Phone
		}
		student = &s
	}

	msg := notification.BookingMessage(booking, student, mentor)
	msg.Channels = input.Channels

	result, err := h.sender.Send(ctx, msg)
	if err != nil {
		return nil, err
	}

	h.logger.Info("booking notification processed", map[string]interface{}{
		"bookingId":      booking.ID,
		"notificationId": result.NotificationID,
		"type":           msg.Type,
		"status":         result.Status,
	})

	channels := result.Channels
	if channels == nil {
		channels = []string{}
	}
	return &Output{
		NotificationID:   result.NotificationID,
		Status:           result.Status,
		NotificationType: msg.Type,
		Channels:         channels,
		SentAt:           result.SentAt,
	}, nil
}

// lookupUser returns nil when the student account no longer exists.
func (h *Handler) lookupUser(ctx context.Context, id string) (*models.User, error) {
	u, err := h.store.Users.Get(ctx, id)
	if stderrors.Is(err, store.ErrNotFound) {
		h.logger.Warn("booking student not found", map[string]interface{}{"studentId": id})
		return nil, nil
	}
	return u, err
}

func (h *Handler) lookupMentor(ctx context.Context, id string) (*models.Mentor, error) {
	m, err := h.store.Mentors.Get(ctx, id)
	if stderrors.Is(err, store.ErrNotFound) {
		h.logger.Warn("booking mentor not found", map[string]interface{}{"mentorId": id})
		return nil, nil
	}
	return m, err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
