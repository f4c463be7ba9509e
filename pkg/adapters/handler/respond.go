package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

type errorResponse struct {
	Error     string      `json:"error"`
	Kind      domain.Kind `json:"kind,omitempty"`
	Retryable bool        `json:"retryable"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses and gives the
// client enough to tell transient store trouble from bad input.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindFetch, domain.KindPersist:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{
		Error:     err.Error(),
		Kind:      domain.KindOf(err),
		Retryable: domain.Retryable(err),
	})
}
