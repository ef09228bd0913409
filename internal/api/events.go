package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/common/metrics"
)

const (
	defaultHeartbeatInterval = 15 * time.Second
	defaultDigestInterval    = time.Minute
)

// eventStream writes server-sent events to one client.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	seq     int
}

func (s *Server) openStream(w http.ResponseWriter, r *http.Request, name string) (*eventStream, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, errors.NewInternalError(fmt.Errorf("streaming unsupported by response writer")))
		return nil, false
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	metrics.SSEClientsActive.WithLabelValues(name).Inc()
	logger.FromContext(r.Context(), s.logger).Info("event stream opened", map[string]interface{}{
		"stream":     name,
		"remoteAddr": clientIP(r),
	})
	return &eventStream{w: w, flusher: flusher}, true
}

func (s *Server) closeStream(r *http.Request, name string, sent int) {
	metrics.SSEClientsActive.WithLabelValues(name).Dec()
	logger.FromContext(r.Context(), s.logger).Info("event stream closed", map[string]interface{}{
		"stream": name,
		"events": sent,
	})
}

func (e *eventStream) send(event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	e.seq++
	if _, err := fmt.Fprintf(e.w, "id: %d\nevent: %s\ndata: %s\n\n", e.seq, event, payload); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}

func interval(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

type heartbeat struct {
	Time    time.Time `json:"time"`
	Backend string    `json:"backend"`
}

// heartbeatStream emits a heartbeat event at once and then on every tick until the client
// goes away or the server shuts down.
func (s *Server) heartbeatStream(w http.ResponseWriter, r *http.Request) {
	const name = "heartbeat"
	stream, ok := s.openStream(w, r, name)
	if !ok {
		return
	}
	defer func() { s.closeStream(r, name, stream.seq) }()

	ticker := time.NewTicker(interval(s.cfg.SSE.HeartbeatInterval, defaultHeartbeatInterval))
	defer ticker.Stop()

	for {
		if err := stream.send(name, heartbeat{Time: time.Now().UTC(), Backend: s.store.Backend}); err != nil {
			return
		}
		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
		}
	}
}

// agentStream pushes the student's digest on every tick. The agent config is reloaded each
// time so edits apply to open streams; a disabled agent gets one "disabled" event.
func (s *Server) agentStream(w http.ResponseWriter, r *http.Request) {
	const name = "agent"
	studentID := mux.Vars(r)["studentId"]

	stream, ok := s.openStream(w, r, name)
	if !ok {
		return
	}
	defer func() { s.closeStream(r, name, stream.seq) }()

	log := logger.FromContext(r.Context(), s.logger).WithFields(map[string]interface{}{"studentId": studentID})
	ticker := time.NewTicker(interval(s.cfg.SSE.DigestInterval, defaultDigestInterval))
	defer ticker.Stop()

	for {
		cfg, err := s.matcher.AgentConfig(r.Context(), studentID)
		if err != nil {
			log.Error("agent config load failed", map[string]interface{}{"error": err.Error()})
			_ = stream.send("error", errorResponse{Message: "digest unavailable", Code: toStandardError(err).Code})
			return
		}
		if !cfg.Enabled {
			_ = stream.send("disabled", cfg)
			return
		}

		digest, err := s.matcher.BuildDigest(r.Context(), cfg)
		if err != nil {
			log.Warn("digest build failed", map[string]interface{}{"error": err.Error()})
			if err := stream.send("error", errorResponse{Message: "digest unavailable", Code: toStandardError(err).Code}); err != nil {
				return
			}
		} else if err := stream.send("digest", digest); err != nil {
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
		}
	}
}
