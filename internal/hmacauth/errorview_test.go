package hmacauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhook-gate/internal/common/errors"
)

func TestContentTypeKey(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"application/x-www-form-urlencoded", ContentTypeKeyURLEncoded},
		{"application/json", ContentTypeKeyJSON},
		{"application/json; charset=utf-8", ContentTypeKeyJSON},
		{"application/vnd.api+json", ContentTypeKeyJSON},
		{"application/hal+json", ContentTypeKeyJSON},
		{"text/xml", "xml"},
		{"text/plain; charset=utf-8", "plain"},
		{"Application/JSON", ContentTypeKeyJSON},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := ContentTypeKey(tt.contentType); got != tt.want {
				t.Errorf("ContentTypeKey(%q) = %q, want %q", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestDispatchJSON(t *testing.T) {
	d := NewDispatcher(nil)

	r := httptest.NewRequest("POST", "/webhooks/42", nil)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	require.NoError(t, d.Dispatch(w, r))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "forbidden", body["error"])
}

func TestDispatchURLEncoded(t *testing.T) {
	d := NewDispatcher(nil)

	r := httptest.NewRequest("POST", "/webhooks/42", nil)
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	require.NoError(t, d.Dispatch(w, r))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "forbidden", w.Body.String())
}

func TestDispatchPlusJSONSubtypeUsesJSONView(t *testing.T) {
	d := NewDispatcher(nil)

	r := httptest.NewRequest("POST", "/webhooks/42", nil)
	r.Header.Set("Content-Type", "application/vnd.api+json")
	w := httptest.NewRecorder()

	require.NoError(t, d.Dispatch(w, r))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDispatchUnknownContentTypeIsConfigError(t *testing.T) {
	// A table without a view for the xml category.
	d := NewDispatcher([]ErrorViewEntry{
		{ContentType: ContentTypeKeyJSON, Renderer: JSONRenderer{}, Template: "forbidden"},
	})

	r := httptest.NewRequest("POST", "/webhooks/42", nil)
	r.Header.Set("Content-Type", "text/xml")
	w := httptest.NewRecorder()

	err := d.Dispatch(w, r)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}

func TestDispatchMissingContentTypeYieldsDiagnostic(t *testing.T) {
	d := NewDispatcher(nil)

	r := httptest.NewRequest("POST", "/webhooks/42", nil)
	w := httptest.NewRecorder()

	require.NoError(t, d.Dispatch(w, r))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "no content-type header")
}

func TestDispatchCustomView(t *testing.T) {
	var respondedWith interface{}

	d := NewDispatcher([]ErrorViewEntry{
		{
			ContentType: "xml",
			Renderer: RendererFunc(func(template string) (interface{}, error) {
				return "<error>" + template + "</error>", nil
			}),
			Template: "denied",
			Responder: ResponderFunc(func(w http.ResponseWriter, r *http.Request, body interface{}) {
				respondedWith = body
				w.Header().Set("Content-Type", "text/xml")
				w.WriteHeader(http.StatusForbidden)
			}),
		},
	})

	r := httptest.NewRequest("POST", "/webhooks/42", nil)
	r.Header.Set("Content-Type", "text/xml")
	w := httptest.NewRecorder()

	require.NoError(t, d.Dispatch(w, r))
	assert.Equal(t, "<error>denied</error>", respondedWith)
	assert.Equal(t, "text/xml", w.Header().Get("Content-Type"))
}

func TestDispatchCustomRendererDefaultResponder(t *testing.T) {
	d := NewDispatcher([]ErrorViewEntry{
		{
			ContentType: ContentTypeKeyJSON,
			Renderer:    JSONRenderer{Key: "detail"},
			Template:    "signature mismatch",
		},
	})

	r := httptest.NewRequest("POST", "/webhooks/42", nil)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	require.NoError(t, d.Dispatch(w, r))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "signature mismatch", body["detail"])
}
