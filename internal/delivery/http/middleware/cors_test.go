package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"error":null}`))
	})
	handler := CORS([]string{"https://kiosk.example.org/", " https://admin.example.org"}, next)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"preflight allowed", http.MethodOptions, "https://kiosk.example.org", http.StatusNoContent, "https://kiosk.example.org"},
		{"preflight unknown origin", http.MethodOptions, "https://evil.example.com", http.StatusNoContent, ""},
		{"simple request allowed", http.MethodGet, "https://admin.example.org", http.StatusOK, "https://admin.example.org"},
		{"simple request unknown origin", http.MethodGet, "https://evil.example.com", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://test/checkin/status", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Access-Control-Allow-Origin"))
			if tt.method == http.MethodOptions && tt.wantAllow != "" {
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "X-Request-ID")
			}
		})
	}
}

func TestCORS_Wildcard(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	handler := CORS([]string{"*", "https://admin.example.org"}, next)

	t.Run("any origin without credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://test/checkin", nil)
		req.Header.Set("Origin", "http://10.0.0.12:5173")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Origin", rr.Header().Get("Vary"))
	})

	t.Run("listed origin keeps credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://test/families", nil)
		req.Header.Set("Origin", "https://admin.example.org")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, "https://admin.example.org", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "X-Request-ID", rr.Header().Get("Access-Control-Expose-Headers"))
	})
}
