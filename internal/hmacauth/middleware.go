package hmacauth

import (
	"bytes"
	"io"
	"net/http"

	"webhook-gate/internal/common/errors"
	"webhook-gate/internal/common/logging"
)

// Gate is the verification middleware. Requests outside the configured
// scope pass through untouched; in-scope requests must present a valid
// signature or are halted with a negotiated 403.
//
// Configuration is resolved once at construction and never mutated, so a
// single Gate is safe for concurrent requests.
type Gate struct {
	credentials []CredentialSpec
	scope       *ScopeRule
	dispatcher  *Dispatcher
	next        http.Handler
	logger      logging.Logger
}

// NewGate resolves the configuration and wraps next with signature
// verification. Configuration problems surface here, not per request.
func NewGate(config *Config, next http.Handler, logger logging.Logger) (*Gate, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	if config == nil {
		return nil, errors.ConfigError("credential configuration is required")
	}

	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Gate{
		credentials: config.credentialList(),
		scope:       CompileScope(config.Scope),
		dispatcher:  NewDispatcher(config.ErrorViews),
		next:        next,
		logger:      logger,
	}, nil
}

func (g *Gate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !g.scope.InScope(SplitPath(r.URL.Path)) {
		g.next.ServeHTTP(w, r)
		return
	}

	spec, found := Select(r.Header, g.credentials)

	body, err := CaptureBody(r)
	if err != nil {
		g.logger.Error("request body read failed", err,
			logging.String("path", r.URL.Path),
		)
		http.Error(w, "failed to read request body", http.StatusInternalServerError)
		return
	}

	expected, err := ComputeDigest(body, spec)
	if err != nil {
		g.logger.Error("digest computation failed", err,
			logging.String("header", spec.Header),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	r = withDigest(r, expected)

	headerValue := ""
	if found {
		headerValue = r.Header.Get(spec.Header)
	}

	if CompareDigest(expected, headerValue, spec) == Authorized {
		g.logger.Debug("signature verified",
			logging.String("path", r.URL.Path),
			logging.String("header", spec.Header),
		)
		g.next.ServeHTTP(w, r)
		return
	}

	g.logger.Warn("signature verification failed",
		logging.String("path", r.URL.Path),
		logging.String("header", spec.Header),
		logging.Bool("signature_present", headerValue != ""),
	)

	if err := g.dispatcher.Dispatch(w, r); err != nil {
		g.logger.Error("failure response dispatch failed", err,
			logging.String("path", r.URL.Path),
			logging.String("content_type", r.Header.Get("Content-Type")),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// CaptureBody reads the full request body once and restores r.Body, so
// the hasher and the downstream decoder both see the same bytes.
func CaptureBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.BodyReadError("failed to read request body", err)
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
