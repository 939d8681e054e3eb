package middleware

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"
)

func tracer(name string, trace *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*trace = append(*trace, name+">")
			next.ServeHTTP(w, r)
			*trace = append(*trace, "<"+name)
		})
	}
}

func TestChain(t *testing.T) {
	tests := []struct {
		name  string
		build func(trace *[]string) []Middleware
		want  []string
	}{
		{
			name:  "empty chain calls the handler",
			build: func(*[]string) []Middleware { return nil },
			want:  []string{"handler"},
		},
		{
			name: "first middleware is outermost",
			build: func(trace *[]string) []Middleware {
				return []Middleware{tracer("request_id", trace), tracer("logger", trace), tracer("auth", trace)}
			},
			want: []string{"request_id>", "logger>", "auth>", "handler", "<auth", "<logger", "<request_id"},
		},
		{
			name: "nil entries are skipped",
			build: func(trace *[]string) []Middleware {
				return []Middleware{nil, tracer("cors", trace), nil}
			},
			want: []string{"cors>", "handler", "<cors"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var trace []string
			h := Chain(tt.build(&trace)...)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				trace = append(trace, "handler")
				w.WriteHeader(http.StatusNoContent)
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notebook", nil))

			if !slices.Equal(trace, tt.want) {
				t.Errorf("trace = %v, want %v", trace, tt.want)
			}
			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d, want 204", rec.Code)
			}
		})
	}
}

func TestChain_DisabledRateLimitIsNil(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	var trace []string
	h := Chain(rl.Limit("lookup", 0), tracer("auth", &trace))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		trace = append(trace, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/lookup", nil))

	if want := []string{"auth>", "handler", "<auth"}; !slices.Equal(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}
