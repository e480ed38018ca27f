// Package health serves the liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jensholdgaard/eventdesk/internal/clock"
)

// Probe results.
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// CheckTimeout bounds the combined runtime of the readiness checks.
const CheckTimeout = 5 * time.Second

// Status is the probe response body.
type Status struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// Checker is a named dependency check, e.g. the store's Ping.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler provides the probe endpoints.
type Handler struct {
	ready    atomic.Bool
	checkers []Checker
	clock    clock.Clock
}

// NewHandler creates a health handler. It reports not ready until SetReady(true).
func NewHandler(clk clock.Clock, checkers ...Checker) *Handler {
	return &Handler{checkers: checkers, clock: clk}
}

// SetReady flips the readiness gate.
func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Register mounts /healthz and /readyz on r.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// Liveness always answers 200 while the process serves requests.
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, Status{Status: StatusOK, Timestamp: h.timestamp()})
}

// Readiness answers 200 only when the gate is open and every checker passes.
func (h *Handler) Readiness(c *gin.Context) {
	if !h.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, Status{Status: StatusNotReady, Timestamp: h.timestamp()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), CheckTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.checkers))
	code, status := http.StatusOK, StatusReady
	for _, chk := range h.checkers {
		if err := chk.Check(ctx); err != nil {
			checks[chk.Name] = err.Error()
			code, status = http.StatusServiceUnavailable, StatusNotReady
			continue
		}
		checks[chk.Name] = StatusOK
	}

	c.JSON(code, Status{Status: status, Checks: checks, Timestamp: h.timestamp()})
}

func (h *Handler) timestamp() string {
	return h.clock.Now().UTC().Format(time.RFC3339)
}
