package hmacauth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"webhook-gate/internal/common/errors"
)

// Content-type category keys with built-in response strategies.
const (
	ContentTypeKeyURLEncoded = "urlencoded"
	ContentTypeKeyJSON       = "json"
)

// Renderer produces a failure-response body from a template name. The
// body is either a plain string or a structured map, depending on the
// strategy.
type Renderer interface {
	Render(template string) (interface{}, error)
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(template string) (interface{}, error)

// Render implements Renderer
func (f RendererFunc) Render(template string) (interface{}, error) {
	return f(template)
}

// Responder writes a rendered failure body to the response and finalizes
// the request: status, headers, body.
type Responder interface {
	Respond(w http.ResponseWriter, r *http.Request, body interface{})
}

// ResponderFunc adapts a function to the Responder interface
type ResponderFunc func(w http.ResponseWriter, r *http.Request, body interface{})

// Respond implements Responder
func (f ResponderFunc) Respond(w http.ResponseWriter, r *http.Request, body interface{}) {
	f(w, r, body)
}

// ErrorViewEntry maps a content-type category to its failure rendering.
type ErrorViewEntry struct {
	// ContentType is the category key: "urlencoded", "json", or a raw
	// subtype for anything else.
	ContentType string

	// Renderer produces the response body from Template.
	Renderer Renderer

	// Template names what the renderer should produce.
	Template string

	// Responder emits the rendered body. Nil selects the built-in
	// strategy for the category.
	Responder Responder
}

// TextRenderer renders the template name as a plain string body.
type TextRenderer struct{}

// Render implements Renderer
func (TextRenderer) Render(template string) (interface{}, error) {
	return template, nil
}

// JSONRenderer renders the template name inside an error object.
type JSONRenderer struct {
	// Key is the object key holding the message. Default: "error".
	Key string
}

// Render implements Renderer
func (jr JSONRenderer) Render(template string) (interface{}, error) {
	key := jr.Key
	if key == "" {
		key = "error"
	}
	return map[string]string{key: template}, nil
}

// DefaultErrorViews returns the built-in failure-response table covering
// the two first-class categories. Assembled fresh per gate so callers can
// append entries without sharing state.
func DefaultErrorViews() []ErrorViewEntry {
	return []ErrorViewEntry{
		{ContentType: ContentTypeKeyURLEncoded, Renderer: TextRenderer{}, Template: "forbidden"},
		{ContentType: ContentTypeKeyJSON, Renderer: JSONRenderer{}, Template: "forbidden"},
	}
}

// ContentTypeKey normalizes a media type into its negotiation category:
// form-url-encoded becomes "urlencoded", JSON and any "+json" subtype
// become "json", anything else passes through as its bare subtype.
func ContentTypeKey(contentType string) string {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(mediaType, ";"); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}

	switch {
	case mediaType == "application/x-www-form-urlencoded":
		return ContentTypeKeyURLEncoded
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return ContentTypeKeyJSON
	}

	if idx := strings.LastIndex(mediaType, "/"); idx >= 0 {
		return mediaType[idx+1:]
	}
	return mediaType
}

// Dispatcher negotiates and emits failure responses by content type.
type Dispatcher struct {
	views []ErrorViewEntry
}

// NewDispatcher builds a dispatcher over the given view table, falling
// back to DefaultErrorViews when none is supplied.
func NewDispatcher(views []ErrorViewEntry) *Dispatcher {
	if views == nil {
		views = DefaultErrorViews()
	}
	return &Dispatcher{views: views}
}

// Dispatch renders and writes the 403 response for a failed verification.
//
// A request without a content-type header cannot be negotiated and gets a
// plain diagnostic body. A content type whose category has no configured
// view is a configuration error returned to the caller; the dispatcher
// will not guess a rendering.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request) error {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, "cannot negotiate error response: request has no content-type header")
		return nil
	}

	key := ContentTypeKey(contentType)
	entry, ok := d.lookup(key)
	if !ok {
		return errors.ConfigError("no error view configured for content type " + key)
	}

	body, err := entry.Renderer.Render(entry.Template)
	if err != nil {
		return errors.InternalError("error view rendering failed", err)
	}

	responder := entry.Responder
	if responder == nil {
		responder = defaultResponder(key)
	}
	responder.Respond(w, r, body)
	return nil
}

func (d *Dispatcher) lookup(key string) (ErrorViewEntry, bool) {
	for _, entry := range d.views {
		if entry.ContentType == key {
			return entry, true
		}
	}
	return ErrorViewEntry{}, false
}

func defaultResponder(key string) Responder {
	if key == ContentTypeKeyJSON {
		return ResponderFunc(respondJSON)
	}
	return ResponderFunc(respondText)
}

func respondText(w http.ResponseWriter, _ *http.Request, body interface{}) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = fmt.Fprint(w, body)
}

func respondJSON(w http.ResponseWriter, _ *http.Request, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(body)
}
