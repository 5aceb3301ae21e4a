package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, secret string, setup func(r *http.Request)) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var via string
	handler := RequireSecret(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		via = AuthenticatedVia(r)
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, via
}

func TestRequireSecret_Header(t *testing.T) {
	w, via := serve(t, "s3cret", func(r *http.Request) { r.Header.Set(SecretHeader, "s3cret") })
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "header", via)
}

func TestRequireSecret_Bearer(t *testing.T) {
	w, via := serve(t, "s3cret", func(r *http.Request) { r.Header.Set("Authorization", "bearer s3cret") })
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "bearer", via)
}

func TestRequireSecret_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{name: "missing", setup: nil},
		{name: "wrong header", setup: func(r *http.Request) { r.Header.Set(SecretHeader, "nope") }},
		{name: "malformed bearer", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer") }},
		{name: "basic auth", setup: func(r *http.Request) { r.Header.Set("Authorization", "Basic s3cret") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := serve(t, "s3cret", tt.setup)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireSecret_Disabled(t *testing.T) {
	w, via := serve(t, "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, via)
}
