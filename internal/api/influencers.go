package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Endorse/internal/session"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

type InfluencersHandler struct {
	svc *session.Service
}

func NewInfluencersHandler(svc *session.Service) *InfluencersHandler {
	return &InfluencersHandler{svc: svc}
}

type InfluencerRequest struct {
	ID          string             `json:"id,omitempty" validate:"omitempty,uuid"`
	Name        string             `json:"name" validate:"required,max=200"`
	Category    string             `json:"category,omitempty" validate:"max=100"`
	Description string             `json:"description,omitempty" validate:"max=2000"`
	Attributes  map[string]float64 `json:"attributes" validate:"dive,keys,required,max=64,endkeys,gte=0"`
}

func (req *InfluencerRequest) toInfluencer() *store.Influencer {
	inf := &store.Influencer{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Attributes:  req.Attributes,
	}
	if req.ID != "" {
		inf.ID = uuid.MustParse(req.ID)
	}
	if inf.Attributes == nil {
		inf.Attributes = map[string]float64{}
	}
	return inf
}

func (h *InfluencersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req InfluencerRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	inf := req.toInfluencer()
	if err := h.svc.CreateInfluencer(r.Context(), inf); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inf)
}

func (h *InfluencersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.InfluencerFilter{Category: q.Get("category")}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeMessage(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeMessage(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	influencers, err := h.svc.ListInfluencers(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if influencers == nil {
		influencers = []*store.Influencer{}
	}
	writeJSON(w, http.StatusOK, influencers)
}

func (h *InfluencersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid influencer id")
		return
	}

	inf, err := h.svc.GetInfluencer(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inf)
}

// Update replaces an influencer's name, category, description and attributes.
func (h *InfluencersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid influencer id")
		return
	}

	var req InfluencerRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ID = ""

	inf := req.toInfluencer()
	inf.ID = id
	if err := h.svc.UpdateInfluencer(r.Context(), inf); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inf)
}

func (h *InfluencersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid influencer id")
		return
	}

	if err := h.svc.DeleteInfluencer(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
