package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"webhook-gate/internal/common/logging"
	"webhook-gate/internal/hmacauth"
)

// webhookResponse echoes what the gateway accepted: the endpoint, the
// decoded payload, and the digest the gate computed over the raw body.
type webhookResponse struct {
	Status   string      `json:"status"`
	Endpoint string      `json:"endpoint,omitempty"`
	Digest   string      `json:"digest,omitempty"`
	Payload  interface{} `json:"payload,omitempty"`
}

// ReceiveWebhook decodes the verified body according to its content type
// and acknowledges receipt. Decode failures are the payload's problem,
// not the signature's: the request was already authenticated.
func (h *Handlers) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	endpoint := mux.Vars(r)["endpoint"]

	payload, err := decodeBody(r)
	if err != nil {
		h.logger.Warn("webhook payload decode failed",
			logging.String("endpoint", endpoint),
			logging.String("content_type", r.Header.Get("Content-Type")),
			logging.Err(err),
		)
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed payload"})
		return
	}

	h.logger.Info("webhook received",
		logging.String("endpoint", endpoint),
		logging.String("digest", hmacauth.ReadDigest(r)),
	)

	h.respondJSON(w, http.StatusOK, webhookResponse{
		Status:   "received",
		Endpoint: endpoint,
		Digest:   hmacauth.ReadDigest(r),
		Payload:  payload,
	})
}

func decodeBody(r *http.Request) (interface{}, error) {
	contentType := r.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	switch {
	case contentType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		form := make(map[string]string, len(r.PostForm))
		for key := range r.PostForm {
			form[key] = r.PostForm.Get(key)
		}
		return form, nil

	case contentType == "application/json" || strings.HasSuffix(contentType, "+json"):
		var payload interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		// Unknown types pass through undecoded; the signature already
		// covered the raw bytes.
		return nil, nil
	}
}
