package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Endorse/internal/session"
)

type AdminHandler struct {
	svc *session.Service
}

func NewAdminHandler(svc *session.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) ClearRuns(w http.ResponseWriter, r *http.Request) {
	n := h.svc.ClearRuns()
	writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

// Recompute schedules a background ranking without waiting for it.
func (h *AdminHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	h.svc.MarkDirty()
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":     "scheduled",
		"generation": h.svc.Generation(),
	})
}
