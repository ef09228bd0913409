package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/store"
)

const (
	maxBodyBytes = 1 << 20
	readyTimeout = 3 * time.Second
)

type errorResponse struct {
	Message   string              `json:"message"`
	Code      errors.ErrorCode    `json:"code"`
	Fields    []errors.FieldError `json:"fields,omitempty"`
	RequestID string              `json:"requestId,omitempty"`
}

// missing names the resource when err is a repository not-found.
func missing(err error, resource, id string) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.NewResourceNotFoundError(resource, id)
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// toStandardError maps repository sentinels and context errors onto API errors.
func toStandardError(err error) *errors.StandardError {
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return errors.NewResourceNotFoundError("resource", "")
	case stderrors.Is(err, store.ErrConflict):
		return errors.NewConflictError("resource", err.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError("request", err)
	}
	return errors.Normalize(err)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := toStandardError(err)
	status := stdErr.HTTPStatus()

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context(), s.logger).Error("request failed", map[string]interface{}{
			"path":    r.URL.Path,
			"code":    stdErr.Code,
			"error":   err.Error(),
			"details": stdErr.Details,
		})
	}

	resp := errorResponse{
		Message:   stdErr.Message,
		Code:      stdErr.Code,
		Fields:    stdErr.Fields,
		RequestID: requestIDFrom(r.Context()),
	}
	if status < http.StatusInternalServerError && stdErr.Details != "" && len(stdErr.Fields) == 0 {
		resp.Message = stdErr.Message + ": " + stdErr.Details
	}
	writeJSON(w, status, resp)
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.NewInvalidInputError("request body is empty")
		}
		return errors.NewInvalidInputError(err.Error())
	}
	return s.validator.Struct(v)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.NewValidationError("invalid query parameter",
			errors.FieldError{Field: name, Message: name + " must be a non-negative integer"})
	}
	return n, nil
}

// page reads limit and offset.
func page(r *http.Request) (limit, offset int, err error) {
	if limit, err = queryInt(r, "limit"); err != nil {
		return 0, 0, err
	}
	offset, err = queryInt(r, "offset")
	return limit, offset, err
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"backend": s.store.Backend,
	})
}

// ready pings every attached backend.
func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make(map[string]string, len(s.checks))
	status := http.StatusOK
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "degraded"
	}
	writeJSON(w, status, map[string]interface{}{
		"status":  state,
		"backend": s.store.Backend,
		"checks":  checks,
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, errors.NewResourceNotFoundError("route", r.URL.Path))
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Message:   "method not allowed",
		Code:      "METHOD_NOT_ALLOWED",
		RequestID: requestIDFrom(r.Context()),
	})
}
