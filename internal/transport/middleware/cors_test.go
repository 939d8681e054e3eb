package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartmarshall/vibevocab/internal/config"
)

var frontendCORS = config.CORSConfig{
	AllowedOrigins:   "https://vocab.example, https://staging.vocab.example",
	AllowedMethods:   "GET,POST,PUT,DELETE,OPTIONS",
	AllowedHeaders:   "Authorization,Content-Type",
	AllowCredentials: true,
	MaxAge:           600,
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name          string
		cfg           config.CORSConfig
		method        string
		origin        string
		preflight     bool
		wantStatus    int
		wantHandler   bool
		wantHeaders   map[string]string
		absentHeaders []string
	}{
		{
			name:       "preflight from the frontend",
			cfg:        frontendCORS,
			method:     http.MethodOptions,
			origin:     "https://vocab.example",
			preflight:  true,
			wantStatus: http.StatusNoContent,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":      "https://vocab.example",
				"Access-Control-Allow-Methods":     "GET, POST, PUT, DELETE, OPTIONS",
				"Access-Control-Allow-Headers":     "Authorization, Content-Type",
				"Access-Control-Allow-Credentials": "true",
				"Access-Control-Max-Age":           "600",
			},
		},
		{
			name:        "simple request from a second allowed origin",
			cfg:         frontendCORS,
			method:      http.MethodPost,
			origin:      "https://staging.vocab.example",
			wantStatus:  http.StatusOK,
			wantHandler: true,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":   "https://staging.vocab.example",
				"Access-Control-Expose-Headers": RequestIDHeader,
			},
			absentHeaders: []string{"Access-Control-Allow-Methods"},
		},
		{
			name:          "unknown origin gets no grant",
			cfg:           frontendCORS,
			method:        http.MethodGet,
			origin:        "https://evil.example",
			wantStatus:    http.StatusOK,
			wantHandler:   true,
			absentHeaders: []string{"Access-Control-Allow-Origin", "Access-Control-Allow-Credentials"},
		},
		{
			name:        "wildcard echoes the origin without credentials",
			cfg:         config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET", AllowedHeaders: "Authorization"},
			method:      http.MethodGet,
			origin:      "https://anywhere.example",
			wantStatus:  http.StatusOK,
			wantHandler: true,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin": "https://anywhere.example",
				"Vary":                        "Origin",
			},
			absentHeaders: []string{"Access-Control-Allow-Credentials"},
		},
		{
			name:        "bare OPTIONS is not a preflight",
			cfg:         config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET", AllowedHeaders: "Authorization"},
			method:      http.MethodOptions,
			wantStatus:  http.StatusOK,
			wantHandler: true,
			wantHeaders: map[string]string{"Vary": "Origin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := CORS(tt.cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/api/lookup", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if called != tt.wantHandler {
				t.Errorf("handler called = %v, want %v", called, tt.wantHandler)
			}
			for k, want := range tt.wantHeaders {
				if got := rec.Header().Get(k); got != want {
					t.Errorf("%s = %q, want %q", k, got, want)
				}
			}
			for _, k := range tt.absentHeaders {
				if got := rec.Header().Get(k); got != "" {
					t.Errorf("%s = %q, want unset", k, got)
				}
			}
		})
	}
}
