package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
	"github.com/MikeSquared-Agency/Endorse/internal/session"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

type RankingHandler struct {
	svc *session.Service
}

func NewRankingHandler(svc *session.Service) *RankingHandler {
	return &RankingHandler{svc: svc}
}

type RankingRequest struct {
	// TierThreshold overrides the configured threshold for this request only.
	TierThreshold     *float64 `json:"tier_threshold,omitempty"`
	IncludeNormalized bool     `json:"include_normalized,omitempty"`
}

type RankingResponse struct {
	RunID         uuid.UUID                 `json:"run_id"`
	Generation    uint64                    `json:"generation"`
	ComputedAt    time.Time                 `json:"computed_at"`
	TierThreshold float64                   `json:"tier_threshold"`
	Criteria      []scoring.Criterion       `json:"criteria"`
	Candidates    []scoring.ScoredCandidate `json:"candidates"`
	Normalized    *scoring.NormalizedMatrix `json:"normalized,omitempty"`
}

func newRankingResponse(res *session.Result, includeNormalized bool) RankingResponse {
	resp := RankingResponse{
		RunID:         res.RunID,
		Generation:    res.Generation,
		ComputedAt:    res.ComputedAt,
		TierThreshold: res.Ranking.TierThreshold,
		Criteria:      res.Ranking.Criteria,
		Candidates:    res.Ranking.Candidates,
	}
	if includeNormalized {
		resp.Normalized = res.Ranking.Normalized
	}
	return resp
}

// Compute runs a fresh ranking over the current session. An empty body uses
// the configured threshold.
func (h *RankingHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req RankingRequest
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Rank(r.Context(), session.RankOptions{
		TierThreshold: req.TierThreshold,
		Trigger:       session.TriggerAPI,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRankingResponse(res, req.IncludeNormalized))
}

// Latest returns the cached ranking. It never computes one.
func (h *RankingHandler) Latest(w http.ResponseWriter, r *http.Request) {
	res, ok := h.svc.Latest()
	if !ok {
		writeMessage(w, http.StatusNotFound, "no ranking computed yet")
		return
	}
	includeNormalized, _ := strconv.ParseBool(r.URL.Query().Get("include_normalized"))
	w.Header().Set("X-Ranking-Stale", strconv.FormatBool(res.Generation != h.svc.Generation()))
	writeJSON(w, http.StatusOK, newRankingResponse(res, includeNormalized))
}

func (h *RankingHandler) Runs(w http.ResponseWriter, r *http.Request) {
	runs := h.svc.Runs()
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}
