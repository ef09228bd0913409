package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"admissions-platform/internal/common/errors"
	"admissions-platform/internal/models"
)

func (s *Server) listActionPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ActionPlans.List(r.Context(), r.URL.Query().Get("studentId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(plans))
}

func (s *Server) createActionPlan(w http.ResponseWriter, r *http.Request) {
	var plan models.ActionPlan
	if err := s.decode(r, &plan); err != nil {
		s.writeError(w, r, err)
		return
	}
	plan.ID = ""
	plan.Title = strings.TrimSpace(plan.Title)
	if plan.Items == nil {
		plan.Items = []models.ActionItem{}
	}
	if err := s.store.ActionPlans.Create(r.Context(), &plan); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, &plan)
}

func (s *Server) generateActionPlan(w http.ResponseWriter, r *http.Request) {
	var req models.GeneratePlanRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	plan, err := s.matcher.GeneratePlan(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) getActionPlan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	plan, err := s.store.ActionPlans.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, missing(err, "action plan", id))
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// updateActionPlan replaces the title and items; the owner cannot change.
func (s *Server) updateActionPlan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body models.UpdateActionPlanRequest
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	plan, err := s.store.ActionPlans.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, missing(err, "action plan", id))
		return
	}
	plan.Title = strings.TrimSpace(body.Title)
	plan.Items = body.Items
	if plan.Items == nil {
		plan.Items = []models.ActionItem{}
	}
	if err := s.store.ActionPlans.Update(r.Context(), plan); err != nil {
		s.writeError(w, r, missing(err, "action plan", id))
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) deleteActionPlan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.ActionPlans.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, missing(err, "action plan", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateActionItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, itemID := vars["id"], vars["itemId"]

	var req models.UpdateActionItemRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	plan, err := s.store.ActionPlans.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, missing(err, "action plan", id))
		return
	}

	idx := -1
	for i := range plan.Items {
		if plan.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.writeError(w, r, errors.NewResourceNotFoundError("action item", itemID))
		return
	}

	item := &plan.Items[idx]
	if req.Done != nil {
		item.Done = *req.Done
	}
	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.DueDate != nil {
		item.DueDate = req.DueDate
	}

	if err := s.store.ActionPlans.Update(r.Context(), plan); err != nil {
		s.writeError(w, r, missing(err, "action plan", id))
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
