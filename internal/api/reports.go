package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MikeSquared-Agency/Endorse/internal/export"
	"github.com/MikeSquared-Agency/Endorse/internal/session"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

type ReportsHandler struct {
	svc *session.Service
}

func NewReportsHandler(svc *session.Service) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func (h *ReportsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Export renders the requested report kinds as an attachment.
// Kinds come from repeated or comma separated ?kind= parameters.
func (h *ReportsHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kinds, err := export.ParseKinds(q["kind"])
	if err != nil {
		writeError(w, err)
		return
	}
	name := q.Get("format")
	if name == "" {
		name = string(export.FormatJSON)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.svc.Export(r.Context(), kinds, format)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Body)))
	w.Header().Set("X-Export-ID", res.Record.ID.String())
	w.WriteHeader(http.StatusOK)
	w.Write(res.Body)
}

type FormatsResponse struct {
	Kinds   []export.Kind   `json:"kinds"`
	Formats []export.Format `json:"formats"`
}

// Formats lists the formats every requested kind can be rendered in.
func (h *ReportsHandler) Formats(w http.ResponseWriter, r *http.Request) {
	kinds, err := export.ParseKinds(r.URL.Query()["kind"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FormatsResponse{Kinds: kinds, Formats: export.CommonFormats(kinds)})
}

func (h *ReportsHandler) Exports(w http.ResponseWriter, r *http.Request) {
	records := h.svc.Exports()
	if records == nil {
		records = []store.ExportRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
