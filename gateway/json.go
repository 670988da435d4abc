package gateway

import (
	"encoding/json"
	"net/http"
)

const (
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type routesBody struct {
	Events []string `json:"events"`
}

type healthBody struct {
	Status   string `json:"status"`
	Queued   int    `json:"queued"`
	InFlight int64  `json:"in_flight"`
}

func writeJSON(w http.ResponseWriter, status int, val any) {
	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(val)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, status, errorBody{
		Error:     err.Error(),
		RequestID: RequestIDFrom(r.Context()),
	})
}
