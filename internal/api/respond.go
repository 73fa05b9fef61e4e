package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/Endorse/internal/export"
	"github.com/MikeSquared-Agency/Endorse/internal/scoring"
	"github.com/MikeSquared-Agency/Endorse/internal/session"
	"github.com/MikeSquared-Agency/Endorse/internal/store"
)

// Package-level validator instance for request bodies.
var validate = validator.New()

type errorResponse struct {
	Error     string   `json:"error"`
	Kind      string   `json:"kind,omitempty"`
	Criterion string   `json:"criterion,omitempty"`
	Candidate string   `json:"candidate,omitempty"`
	Sum       *float64 `json:"sum,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps service errors onto status codes. Scoring failures keep
// their kind so clients can tell a weight problem from bad data.
func writeError(w http.ResponseWriter, err error) {
	var se *scoring.Error
	if errors.As(err, &se) {
		resp := errorResponse{
			Error:     se.Msg,
			Kind:      se.KindName(),
			Criterion: se.Criterion,
			Candidate: se.Candidate,
		}
		if errors.Is(se, scoring.ErrInvalidConfiguration) {
			sum := se.Sum
			resp.Sum = &sum
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicate):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrInvalidInfluencer), errors.Is(err, export.ErrUnsupported):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		writeMessage(w, http.StatusInternalServerError, err.Error())
	}
}

// decode reads a JSON body into v and runs struct tag validation on it.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validationMessage(verrs)
		}
		return err
	}
	return nil
}

func validationMessage(verrs validator.ValidationErrors) error {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New("validation: " + strings.Join(parts, "; "))
}
