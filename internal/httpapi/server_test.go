package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/locus/internal/config"
	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Source.Roots = []string{"testdata/src/main/java"}
	svc, err := service.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return NewServer(svc, nil)
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "participle", body["parser"])
	assert.Equal(t, "simple", body["naming"])
	assert.Len(t, body["roots"], 1)
}

func TestServer_Locate(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name      string
		body      string
		status    int
		kind      string
		beginLine float64
	}{
		{"located", `{"signature":"org.samples.Person#getAge(int, Object[])"}`, http.StatusOK, "", 35},
		{"method.toString form", `{"signature":"public java.lang.String org.samples.Person.getFirstName()"}`, http.StatusOK, "", 23},
		{"no matching overload", `{"signature":"org.samples.Person#getAge(long)"}`, http.StatusNotFound, "DeclarationNotFound", 0},
		{"missing source", `{"signature":"org.samples.Missing#run()"}`, http.StatusNotFound, "SourceUnavailable", 0},
		{"malformed signature", `{"signature":"org.samples.Person#getAge("}`, http.StatusBadRequest, "DescriptorError", 0},
		{"empty signature", `{"signature":"  "}`, http.StatusBadRequest, "", 0},
		{"invalid json", `{"signature":`, http.StatusBadRequest, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, s, http.MethodPost, "/v1/locate", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			if tt.status == http.StatusOK {
				rng := body["range"].(map[string]interface{})
				assert.Equal(t, tt.beginLine, rng["begin"].(map[string]interface{})["line"])
				return
			}

			assert.Equal(t, float64(tt.status), body["status_code"])
			assert.NotEmpty(t, body["message"])
			if tt.kind != "" {
				assert.Equal(t, tt.kind, body["kind"])
				details := body["details"].(map[string]interface{})
				assert.Equal(t, tt.kind, details["error"])
			}
		})
	}
}

func TestServer_LocateSuggestions(t *testing.T) {
	s := newTestServer(t)
	rec, body := do(t, s, http.MethodPost, "/v1/locate", `{"signature":"org.samples.Person#getAge(int, String)"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	suggestions, ok := body["suggestions"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, suggestions)
}

func TestServer_LocateBatch(t *testing.T) {
	s := newTestServer(t)

	rec, body := do(t, s, http.MethodPost, "/v1/locate/batch",
		`{"signatures":["org.samples.Person#getAge(int)","org.samples.Person$Address#getFirstName()","org.samples.Person#getAge(long)"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["located"])
	assert.Equal(t, float64(1), body["failed"])
	require.Len(t, body["results"], 3)

	third := body["results"].([]interface{})[2].(map[string]interface{})
	assert.Equal(t, "DeclarationNotFound", third["error"])

	rec, _ = do(t, s, http.MethodPost, "/v1/locate/batch", `{"signatures":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Outline(t *testing.T) {
	s := newTestServer(t)

	rec, body := do(t, s, http.MethodGet, "/v1/outline/org.samples.Person$Greeter", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "org.samples.Person$Greeter", body["type"])
	assert.Len(t, body["entries"], 2)

	rec, body = do(t, s, http.MethodGet, "/v1/outline/org.samples.Missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SourceUnavailable", body["kind"])

	rec, _ = do(t, s, http.MethodGet, "/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RequestID(t *testing.T) {
	s := newTestServer(t)

	rec, _ := do(t, s, http.MethodGet, "/healthz", "")
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code     errors.ErrorCode
		expected int
	}{
		{errors.DescriptorErrorCode, http.StatusBadRequest},
		{errors.ClassFormatErrorCode, http.StatusBadRequest},
		{errors.SourceUnavailableCode, http.StatusNotFound},
		{errors.DeclarationNotFoundCode, http.StatusNotFound},
		{errors.RangeUnavailableCode, http.StatusInternalServerError},
		{errors.StoreErrorCode, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFor(tt.code))
		})
	}
}
