// Package handlers implements the gateway's HTTP endpoints. The webhook
// endpoint runs behind the hmacauth gate, so by the time a request lands
// here its body has already been verified.
package handlers

import (
	"encoding/json"
	"net/http"

	"webhook-gate/internal/common/logging"
)

// Handlers holds the gateway's HTTP handlers
type Handlers struct {
	logger logging.Logger
}

// New creates the handler set
func New(logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Handlers{logger: logger}
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", err)
	}
}

// HealthCheck reports gateway liveness
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
