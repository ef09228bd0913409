// internal/workers/matching/categorize-colleges/handler.go
package categorizecolleges

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/common/metrics"
	"admissions-platform/internal/common/observability"
	"admissions-platform/internal/common/validation"
	"admissions-platform/internal/matching"
	"admissions-platform/internal/models"
	"admissions-platform/internal/service"
	"admissions-platform/internal/store"
)

const (
	TaskType = "categorize-colleges"
)

type Handler struct {
	config       *Config
	profiles     store.ProfileRepository
	colleges     store.CollegeRepository
	validator    *validation.SchemaValidator
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

func NewHandler(config *Config, profiles store.ProfileRepository, colleges store.CollegeRepository, validator *validation.SchemaValidator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		profiles:     profiles,
		colleges:     colleges,
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
	category := matching.Category(input.Category)
	if category != "" && !category.Valid() {
		return nil, errors.NewValidationError("invalid category", errors.FieldError{
			Field:   "category",
			Message: "category must be one of safe, target, reach, extremeReach",
		})
	}

	profile, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	colleges := input.Colleges
	if len(colleges) == 0 {
		colleges, err = h.colleges.List(ctx, models.CollegeFilter{})
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()
	ranked := service.RankColleges(profile, colleges, service.RankOptions{
		Category: category,
		MinScore: input.MinScore,
		Limit:    h.config.limit(input.Limit),
	})
	h.obs.RecordMatch(ctx, service.CandidateCollege, len(colleges), time.Since(start))
	metrics.MatchComputations.WithLabelValues(service.CandidateCollege).Add(float64(len(colleges)))
	for c, n := range ranked.Counts {
		metrics.CollegeCategories.WithLabelValues(string(c)).Add(float64(n))
	}

	output := &Output{
		Matches:    make([]CategorizedCollege, 0, len(ranked.Matches)),
		Counts:     ranked.Counts,
		Total:      ranked.Total,
		ByCategory: make(map[matching.Category][]string, len(matching.Categories)),
	}
	for _, c := range matching.Categories {
		output.ByCategory[c] = []string{}
	}
	for _, cm := range ranked.Matches {
		output.Matches = append(output.Matches, CategorizedCollege{
			CollegeID:  cm.College.ID,
			Name:       cm.College.Name,
			Category:   cm.Assessment.Category,
			FitScore:   cm.Assessment.FitScore,
			MatchScore: cm.MatchScore,
			Estimated:  cm.Assessment.Estimated,
		})
		output.ByCategory[cm.Assessment.Category] = append(output.ByCategory[cm.Assessment.Category], cm.College.ID)
	}

	h.logger.Info("colleges categorized", map[string]interface{}{
		"studentId": input.StudentID,
		"colleges":  len(colleges),
		"returned":  len(output.Matches),
		"counts":    output.Counts,
	})
	return output, nil
}

func (h *Handler) resolveProfile(ctx context.Context, input *Input) (*models.StudentProfile, error) {
	if input.StudentProfile != nil {
		return input.StudentProfile, nil
	}
	if input.StudentID == "" {
		return nil, errors.NewValidationError("studentId or studentProfile is required")
	}

	profile, err := h.profiles.Get(ctx, input.StudentID)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, errors.NewProfileNotFoundError(input.StudentID)
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
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
