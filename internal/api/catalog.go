package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/common/logger"
	"admissions-platform/internal/models"
	"admissions-platform/internal/service"
)

// listingProfile returns the profile named by ?studentId=, or nil when absent.
func (s *Server) listingProfile(r *http.Request) (*models.StudentProfile, error) {
	studentID := strings.TrimSpace(r.URL.Query().Get("studentId"))
	if studentID == "" {
		return nil, nil
	}
	return s.matcher.ResolveProfile(r.Context(), studentID, nil)
}

func (s *Server) searchColleges(ctx context.Context, f models.CollegeFilter) ([]*models.College, error) {
	if s.search != nil {
		return s.search.Search(ctx, f)
	}
	return s.store.Colleges.List(ctx, f)
}

func (s *Server) listColleges(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	maxTuition, err := queryInt(r, "maxTuition")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	profile, err := s.listingProfile(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	colleges, err := s.searchColleges(r.Context(), models.CollegeFilter{
		Query:      strings.TrimSpace(q.Get("q")),
		State:      q.Get("state"),
		Type:       q.Get("type"),
		MaxTuition: maxTuition,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	service.ApplyCollegeScores(profile, colleges)
	writeJSON(w, http.StatusOK, nonNil(colleges))
}

func (s *Server) getCollege(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	profile, err := s.listingProfile(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	college, err := s.store.Colleges.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, missing(err, "college", id))
		return
	}
	service.ApplyCollegeScores(profile, []*models.College{college})
	writeJSON(w, http.StatusOK, college)
}

func (s *Server) createCollege(w http.ResponseWriter, r *http.Request) {
	var college models.College
	if err := s.decode(r, &college); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Colleges.Create(r.Context(), &college); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.indexCollege(r, &college)

	college.MatchScore = 0
	writeJSON(w, http.StatusCreated, &college)
}

func (s *Server) updateCollege(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var college models.College
	if err := s.decode(r, &college); err != nil {
		s.writeError(w, r, err)
		return
	}
	college.ID = id
	if err := s.store.Colleges.Update(r.Context(), &college); err != nil {
		s.writeError(w, r, missing(err, "college", id))
		return
	}
	s.indexCollege(r, &college)

	college.MatchScore = 0
	writeJSON(w, http.StatusOK, &college)
}

func (s *Server) deleteCollege(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Colleges.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, missing(err, "college", id))
		return
	}
	if s.search != nil {
		if err := s.search.Remove(r.Context(), id); err != nil {
			logger.FromContext(r.Context(), s.logger).Warn("college index removal failed", map[string]interface{}{
				"collegeId": id,
				"error":     err.Error(),
			})
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// indexCollege logs rather than fails: the repository stays the source of truth and the
// next sync repairs the index.
func (s *Server) indexCollege(r *http.Request, c *models.College) {
	if s.search == nil {
		return
	}
	if err := s.search.Index(r.Context(), c); err != nil {
		logger.FromContext(r.Context(), s.logger).Warn("college indexing failed", map[string]interface{}{
			"collegeId": c.ID,
			"error":     err.Error(),
		})
	}
}

func (s *Server) matchColleges(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.matcher.MatchColleges(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listScholarships(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	minAmount, err := queryInt(r, "minAmount")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter := models.ScholarshipFilter{MinAmount: minAmount, Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("deadlineAfter"); raw != "" {
		after, err := parseDate(raw)
		if err != nil {
			s.writeError(w, r, errors.NewValidationError("invalid query parameter",
				errors.FieldError{Field: "deadlineAfter", Message: "deadlineAfter must be a date (YYYY-MM-DD) or RFC 3339 time"}))
			return
		}
		filter.DeadlineAfter = &after
	}
	profile, err := s.listingProfile(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	scholarships, err := s.store.Scholarships.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	service.ApplyScholarshipScores(profile, scholarships)
	writeJSON(w, http.StatusOK, nonNil(scholarships))
}

func (s *Server) getScholarship(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	profile, err := s.listingProfile(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	scholarship, err := s.store.Scholarships.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, missing(err, "scholarship", id))
		return
	}
	service.ApplyScholarshipScores(profile, []*models.Scholarship{scholarship})
	writeJSON(w, http.StatusOK, scholarship)
}

func (s *Server) createScholarship(w http.ResponseWriter, r *http.Request) {
	var scholarship models.Scholarship
	if err := s.decode(r, &scholarship); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Scholarships.Create(r.Context(), &scholarship); err != nil {
		s.writeError(w, r, err)
		return
	}
	scholarship.MatchScore = 0
	writeJSON(w, http.StatusCreated, &scholarship)
}

func (s *Server) updateScholarship(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var scholarship models.Scholarship
	if err := s.decode(r, &scholarship); err != nil {
		s.writeError(w, r, err)
		return
	}
	scholarship.ID = id
	if err := s.store.Scholarships.Update(r.Context(), &scholarship); err != nil {
		s.writeError(w, r, missing(err, "scholarship", id))
		return
	}
	scholarship.MatchScore = 0
	writeJSON(w, http.StatusOK, &scholarship)
}

func (s *Server) deleteScholarship(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Scholarships.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, missing(err, "scholarship", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) matchScholarships(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	matches, err := s.matcher.MatchScholarships(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) listMentors(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	profile, err := s.listingProfile(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	mentors, err := s.store.Mentors.List(r.Context(), models.MentorFilter{
		Specialization: strings.TrimSpace(q.Get("specialization")),
		AvailableOnly:  q.Get("available") == "true",
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	service.ApplyMentorScores(profile, mentors)
	writeJSON(w, http.StatusOK, nonNil(mentors))
}

func (s *Server) getMentor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	profile, err := s.listingProfile(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mentor, err := s.store.Mentors.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, missing(err, "mentor", id))
		return
	}
	service.ApplyMentorScores(profile, []*models.Mentor{mentor})
	writeJSON(w, http.StatusOK, mentor)
}

func (s *Server) createMentor(w http.ResponseWriter, r *http.Request) {
	var mentor models.Mentor
	if err := s.decode(r, &mentor); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Mentors.Create(r.Context(), &mentor); err != nil {
		s.writeError(w, r, err)
		return
	}
	mentor.MatchScore = 0
	writeJSON(w, http.StatusCreated, &mentor)
}

func (s *Server) updateMentor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var mentor models.Mentor
	if err := s.decode(r, &mentor); err != nil {
		s.writeError(w, r, err)
		return
	}
	mentor.ID = id
	if err := s.store.Mentors.Update(r.Context(), &mentor); err != nil {
		s.writeError(w, r, missing(err, "mentor", id))
		return
	}
	mentor.MatchScore = 0
	writeJSON(w, http.StatusOK, &mentor)
}

func (s *Server) deleteMentor(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Mentors.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, missing(err, "mentor", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) matchMentors(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	matches, err := s.matcher.MatchMentors(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, raw)
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
