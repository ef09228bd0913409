// internal/workers/matching/calculate-match-score/handler.go
package calculatematchscore

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
	TaskType = "calculate-match-score"
)

type Handler struct {
	config       *Config
	profiles     store.ProfileRepository
	validator    *validation.SchemaValidator
	errorHandler *errors.ErrorHandler
	obs          *observability.Observability
	logger       logger.Logger
}

// NewHandler wires the handler. profiles is normally the Redis-cached Postgres repository;
// validator and obs may be nil.
func NewHandler(config *Config, profiles store.ProfileRepository, validator *validation.SchemaValidator, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		profiles:     profiles,
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

// run validates the raw variables against the registry schema before decoding them.
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
	profile, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}
	mp := profile.MatchProfile()

	var (
		output     *Output
		candidateN string
	)
	switch input.CandidateType {
	case service.CandidateCollege:
		var c models.College
		if err := decodeCandidate(input.Candidate, &c); err != nil {
			return nil, err
		}
		assessment := matching.Assess(mp, c.Stats())
		output = fromResult(c.ID, matching.ScoreCollege(c.Criteria(), mp))
		output.Assessment = &assessment
		candidateN = c.Name
	case service.CandidateScholarship:
		var s models.Scholarship
		if err := decodeCandidate(input.Candidate, &s); err != nil {
			return nil, err
		}
		output = fromResult(s.ID, matching.ScoreScholarship(s.Criteria(), mp))
		candidateN = s.Name
	case service.CandidateMentor:
		var m models.Mentor
		if err := decodeCandidate(input.Candidate, &m); err != nil {
			return nil, err
		}
		output = fromResult(m.ID, matching.ScoreMentor(m.Criteria(), mp))
		candidateN = m.Name
	default:
		return nil, errors.NewUnsupportedCandidateError(input.CandidateType)
	}

	metrics.MatchComputations.WithLabelValues(input.CandidateType).Inc()
	h.logger.Info("match score calculated", map[string]interface{}{
		"studentId":     input.StudentID,
		"candidateType": input.CandidateType,
		"candidate":     candidateN,
		"score":         output.MatchScore,
		"totalCriteria": output.TotalCriteria,
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
		h.logger.Warn("failed to fetch student profile", map[string]interface{}{
			"studentId": input.StudentID,
			"error":     err,
		})
		return nil, err
	}
	return profile, nil
}

func decodeCandidate(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return errors.NewValidationError("candidate is required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("parse candidate: %v", err))
	}
	return nil
}

func fromResult(candidateID string, r matching.Result) *Output {
	return &Output{
		CandidateID:   candidateID,
		MatchScore:    r.Score,
		TotalCriteria: r.TotalCriteria,
		Earned:        r.Earned,
		Factors:       r.Factors,
	}
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
