// Package api serves the REST and server-sent event endpoints.
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"admissions-platform/internal/common/config"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/common/validation"
	"admissions-platform/internal/models"
	"admissions-platform/internal/notification"
	"admissions-platform/internal/service"
	"admissions-platform/internal/store"
)

// Pinger is a backend checked by /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CollegeIndex searches colleges and keeps the search index in step with writes.
type CollegeIndex interface {
	store.CollegeSearcher
	Index(ctx context.Context, c *models.College) error
	Remove(ctx context.Context, id string) error
}

// Deps are the collaborators of the server. Search, Notifier and Checks are optional.
type Deps struct {
	Store    *store.Store
	Matcher  *service.Matcher
	Search   CollegeIndex
	Notifier *notification.Notifier
	Checks   map[string]Pinger
}

type Server struct {
	cfg       config.HTTPConfig
	router    *mux.Router
	handler   http.Handler
	server    *http.Server
	store     *store.Store
	matcher   *service.Matcher
	search    CollegeIndex
	notifier  *notification.Notifier
	checks    map[string]Pinger
	validator *validation.Validator
	limiter   *ipLimiter
	logger    logger.Logger

	// done is closed on shutdown so open event streams return.
	done     chan struct{}
	doneOnce sync.Once
}

func NewServer(cfg config.HTTPConfig, deps Deps, log logger.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		router:    mux.NewRouter(),
		store:     deps.Store,
		matcher:   deps.Matcher,
		search:    deps.Search,
		notifier:  deps.Notifier,
		checks:    deps.Checks,
		validator: validation.New(),
		limiter:   newIPLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		logger:    log.WithFields(map[string]interface{}{"component": "http"}),
		done:      make(chan struct{}),
	}

	s.setupRoutes()

	// Preflight and rate limiting run ahead of route matching so they also cover
	// unmatched paths and OPTIONS requests.
	s.handler = s.requestIDMiddleware(
		s.requestLoggingMiddleware(
			s.corsMiddleware(
				s.rateLimitMiddleware(s.router))))

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Millisecond,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.metricsMiddleware)

	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", s.ready).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Streams stay open, so they get no request timeout.
	events := s.router.PathPrefix("/api/events").Subrouter()
	events.HandleFunc("/heartbeat", s.heartbeatStream).Methods(http.MethodGet)
	events.HandleFunc("/agents/{studentId}", s.agentStream).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.timeoutMiddleware)
	api.Use(s.jsonContentTypeMiddleware)

	api.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", s.getUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", s.updateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", s.deleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/users/{id}/profile", s.getProfile).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/profile", s.putProfile).Methods(http.MethodPut)

	api.HandleFunc("/colleges", s.listColleges).Methods(http.MethodGet)
	api.HandleFunc("/colleges", s.createCollege).Methods(http.MethodPost)
	api.HandleFunc("/colleges/match", s.matchColleges).Methods(http.MethodPost)
	api.HandleFunc("/colleges/{id}", s.getCollege).Methods(http.MethodGet)
	api.HandleFunc("/colleges/{id}", s.updateCollege).Methods(http.MethodPut)
	api.HandleFunc("/colleges/{id}", s.deleteCollege).Methods(http.MethodDelete)

	api.HandleFunc("/scholarships", s.listScholarships).Methods(http.MethodGet)
	api.HandleFunc("/scholarships", s.createScholarship).Methods(http.MethodPost)
	api.HandleFunc("/scholarships/match", s.matchScholarships).Methods(http.MethodPost)
	api.HandleFunc("/scholarships/{id}", s.getScholarship).Methods(http.MethodGet)
	api.HandleFunc("/scholarships/{id}", s.updateScholarship).Methods(http.MethodPut)
	api.HandleFunc("/scholarships/{id}", s.deleteScholarship).Methods(http.MethodDelete)

	api.HandleFunc("/mentors", s.listMentors).Methods(http.MethodGet)
	api.HandleFunc("/mentors", s.createMentor).Methods(http.MethodPost)
	api.HandleFunc("/mentors/match", s.matchMentors).Methods(http.MethodPost)
	api.HandleFunc("/mentors/{id}", s.getMentor).Methods(http.MethodGet)
	api.HandleFunc("/mentors/{id}", s.updateMentor).Methods(http.MethodPut)
	api.HandleFunc("/mentors/{id}", s.deleteMentor).Methods(http.MethodDelete)

	api.HandleFunc("/bookings", s.listBookings).Methods(http.MethodGet)
	api.HandleFunc("/bookings", s.createBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}", s.getBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", s.deleteBooking).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{id}/status", s.updateBookingStatus).Methods(http.MethodPatch)

	api.HandleFunc("/action-plans", s.listActionPlans).Methods(http.MethodGet)
	api.HandleFunc("/action-plans", s.createActionPlan).Methods(http.MethodPost)
	api.HandleFunc("/action-plans/generate", s.generateActionPlan).Methods(http.MethodPost)
	api.HandleFunc("/action-plans/{id}", s.getActionPlan).Methods(http.MethodGet)
	api.HandleFunc("/action-plans/{id}", s.updateActionPlan).Methods(http.MethodPut)
	api.HandleFunc("/action-plans/{id}", s.deleteActionPlan).Methods(http.MethodDelete)
	api.HandleFunc("/action-plans/{id}/items/{itemId}", s.updateActionItem).Methods(http.MethodPatch)

	api.HandleFunc("/agents/{studentId}", s.getAgentConfig).Methods(http.MethodGet)
	api.HandleFunc("/agents/{studentId}", s.putAgentConfig).Methods(http.MethodPut)

	s.router.NotFoundHandler = http.HandlerFunc(s.notFound)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)
}

// Handler returns the fully wrapped handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting http server", map[string]interface{}{"address": s.cfg.Address})
	if err := s.server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server", nil)
	s.doneOnce.Do(func() { close(s.done) })
	return s.server.Shutdown(ctx)
}
