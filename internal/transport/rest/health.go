package rest

import (
	"context"
	"net/http"
	"time"
)

const pingTimeout = 3 * time.Second

type storagePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness, readiness and health probes.
type HealthHandler struct {
	storage       storagePinger
	driver        string
	llmConfigured bool
	version       string
}

// NewHealthHandler creates a HealthHandler. storage is nil for the memory driver.
func NewHealthHandler(storage storagePinger, driver string, llmConfigured bool, version string) *HealthHandler {
	return &HealthHandler{storage: storage, driver: driver, llmConfigured: llmConfigured, version: version}
}

type healthReport struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]componentStatus `json:"components,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
}

type componentStatus struct {
	Status  string `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Latency string `json:"latency,omitempty"`
}

func (c componentStatus) up() bool { return c.Status == "ok" }

// Live always answers 200 while the process serves requests.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthReport{Status: "ok", Timestamp: time.Now()})
}

// Ready answers 503 while the notebook store is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.checkStorage(r.Context()).up() {
		writeJSON(w, http.StatusServiceUnavailable, healthReport{Status: "down", Timestamp: time.Now()})
		return
	}
	writeJSON(w, http.StatusOK, healthReport{Status: "ok", Timestamp: time.Now()})
}

// Health reports every component. A missing collaborator key is reported
// without failing the check: lookups still answer with fallback cards.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	report := healthReport{
		Status:  "ok",
		Version: h.version,
		Components: map[string]componentStatus{
			"storage": h.checkStorage(r.Context()),
			"llm":     h.llmStatus(),
		},
	}

	code := http.StatusOK
	if !report.Components["storage"].up() {
		report.Status = "down"
		code = http.StatusServiceUnavailable
	}
	report.Timestamp = time.Now()
	writeJSON(w, code, report)
}

func (h *HealthHandler) checkStorage(ctx context.Context) componentStatus {
	if h.storage == nil {
		return componentStatus{Status: "ok", Detail: h.driver}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if err := h.storage.Ping(ctx); err != nil {
		return componentStatus{Status: "down", Detail: h.driver}
	}
	return componentStatus{Status: "ok", Detail: h.driver, Latency: time.Since(start).String()}
}

func (h *HealthHandler) llmStatus() componentStatus {
	if !h.llmConfigured {
		return componentStatus{Status: "unconfigured", Detail: "lookups return fallback cards"}
	}
	return componentStatus{Status: "ok"}
}
