package handlers

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/DeepBDE-Console/pkg/errors"
)

const readinessBudget = 5 * time.Second

// HealthChecker is one dependency probed by /readyz.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckFunc turns a plain probe function into a HealthChecker.
type CheckFunc struct {
	name  string
	probe func(ctx context.Context) error
}

func NewCheckFunc(name string, probe func(ctx context.Context) error) CheckFunc {
	return CheckFunc{name: name, probe: probe}
}

func (c CheckFunc) Name() string                    { return c.name }
func (c CheckFunc) Check(ctx context.Context) error { return c.probe(ctx) }

// ReadyFunc reports whether a component finished initializing.
type ReadyFunc func() bool

// EngineChecker fails until the local structure engine is ready.
func EngineChecker(ready ReadyFunc) HealthChecker {
	return NewCheckFunc("structure_engine", func(context.Context) error {
		if ready != nil && ready() {
			return nil
		}
		return errors.New(errors.ErrCodeEngineNotReady, "structure engine not ready")
	})
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Version    string                    `json:"version,omitempty"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// ComponentCheck is the outcome of a single probe.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (c ComponentCheck) healthy() bool { return c.Status == "healthy" }

// HealthHandler serves /healthz and /readyz.
type HealthHandler struct {
	version  string
	started  time.Time
	checkers []HealthChecker
}

func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{version: version, started: time.Now(), checkers: checkers}
}

// Liveness never touches dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.started).Truncate(time.Second).String(),
	})
}

// Readiness answers 503 while any checker fails.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessBudget)
	defer cancel()

	resp := ReadinessResponse{Status: "ready", Version: h.version, Components: h.probe(ctx)}
	code := http.StatusOK
	for _, c := range resp.Components {
		if !c.healthy() {
			resp.Status, code = "not_ready", http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, code, resp)
}

// probe runs every checker in parallel. A failing checker is reported, it
// does not cancel its siblings.
func (h *HealthHandler) probe(ctx context.Context) map[string]ComponentCheck {
	if len(h.checkers) == 0 {
		return nil
	}
	checks := make([]ComponentCheck, len(h.checkers))
	var g errgroup.Group
	for i, checker := range h.checkers {
		g.Go(func() error {
			start := time.Now()
			err := checker.Check(ctx)
			checks[i] = ComponentCheck{Status: "healthy", Latency: time.Since(start).Truncate(time.Microsecond).String()}
			if err != nil {
				checks[i].Status, checks[i].Error = "unhealthy", err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]ComponentCheck, len(checks))
	for i, c := range checks {
		out[h.checkers[i].Name()] = c
	}
	return out
}

//Personal.AI order the ending
