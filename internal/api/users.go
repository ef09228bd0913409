package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/models"
	"admissions-platform/internal/store"
)

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := page(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	users, err := s.store.Users.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(store.Paginate(users, limit, offset)))
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user := &models.User{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Phone: req.Phone,
		Role:  req.Role,
	}
	if user.Role == "" {
		user.Role = models.RoleStudent
	}

	if err := s.store.Users.Create(r.Context(), user); err != nil {
		if stderrors.Is(err, store.ErrConflict) {
			err = errors.NewConflictError("user", "email "+user.Email+" is already registered")
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user, err := s.store.Users.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, missing(err, "user", id))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req models.UpdateUserRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.store.Users.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, missing(err, "user", id))
		return
	}
	req.Apply(user)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := s.store.Users.Update(r.Context(), user); err != nil {
		if stderrors.Is(err, store.ErrConflict) {
			err = errors.NewConflictError("user", "email "+user.Email+" is already registered")
		}
		s.writeError(w, r, missing(err, "user", id))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// deleteUser also drops the profile and agent config of the user.
func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Users.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, missing(err, "user", id))
		return
	}
	if err := s.store.Profiles.Delete(r.Context(), id); err != nil && !stderrors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.AgentConfigs.Delete(r.Context(), id); err != nil && !stderrors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	profile, err := s.store.Profiles.Get(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			err = errors.NewProfileNotFoundError(id)
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// putProfile creates or replaces the profile of an existing user.
func (s *Server) putProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var profile models.StudentProfile
	if err := s.decode(r, &profile); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.store.Users.Get(r.Context(), id); err != nil {
		s.writeError(w, r, missing(err, "user", id))
		return
	}

	profile.UserID = id
	if err := s.store.Profiles.Upsert(r.Context(), &profile); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &profile)
}
