package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Endorse/internal/session"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

type CriteriaHandler struct {
	svc *session.Service
}

func NewCriteriaHandler(svc *session.Service) *CriteriaHandler {
	return &CriteriaHandler{svc: svc}
}

type CriterionRequest struct {
	ID          string  `json:"id" validate:"required,max=64"`
	Name        string  `json:"name" validate:"max=200"`
	Description string  `json:"description,omitempty" validate:"max=2000"`
	Unit        string  `json:"unit,omitempty" validate:"max=50"`
	Direction   string  `json:"direction" validate:"required,oneof=benefit cost"`
	Weight      float64 `json:"weight"`
}

type ReplaceCriteriaRequest struct {
	Criteria []CriterionRequest `json:"criteria" validate:"required,min=1,dive"`
}

// Weight range is checked by the scoring layer so out-of-range values come
// back as a configuration error rather than a bad request.
type UpdateWeightRequest struct {
	Weight *float64 `json:"weight" validate:"required"`
}

func (h *CriteriaHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Criteria(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CriteriaHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceCriteriaRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	records := make([]*store.Criterion, len(req.Criteria))
	for i, c := range req.Criteria {
		name := c.Name
		if name == "" {
			name = c.ID
		}
		records[i] = &store.Criterion{
			ID:          c.ID,
			Name:        name,
			Description: c.Description,
			Unit:        c.Unit,
			Direction:   c.Direction,
			Weight:      c.Weight,
		}
	}

	view, err := h.svc.ReplaceCriteria(r.Context(), records)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CriteriaHandler) UpdateWeight(w http.ResponseWriter, r *http.Request) {
	var req UpdateWeightRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.svc.UpdateWeight(r.Context(), chi.URLParam(r, "id"), *req.Weight)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CriteriaHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.NormalizeWeights(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CriteriaHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.ResetCriteria(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
