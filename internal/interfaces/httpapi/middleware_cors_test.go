package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		configured []string
		method     string
		origin     string
		wantAllow  string
		wantStatus int
	}{
		{
			name:       "configured origin is echoed",
			configured: []string{"https://app.midfield.io"},
			method:     http.MethodGet,
			origin:     "https://app.midfield.io",
			wantAllow:  "https://app.midfield.io",
			wantStatus: http.StatusOK,
		},
		{
			name:       "wildcard answers preflight",
			configured: []string{"*"},
			method:     http.MethodOptions,
			origin:     "https://app.midfield.io",
			wantAllow:  "*",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "unknown origin gets no header",
			configured: []string{"https://app.midfield.io"},
			method:     http.MethodGet,
			origin:     "https://evil.example.com",
			wantAllow:  "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no origin header passes through",
			configured: []string{"https://app.midfield.io"},
			method:     http.MethodGet,
			origin:     "",
			wantAllow:  "",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/internal/jobs/worker", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.configured, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}
