package lexsearch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	healthuc "github.com/kailas-cloud/lexsearch/internal/usecase/health"
)

// HealthStatus is the combined state of the document backend and whichever
// of the cache, case store and identity provider are configured.
type HealthStatus struct {
	Status string            // "ok", "degraded" or "error"
	Checks map[string]string // check name to "ok" or "error"
}

// Healthy reports whether every check passed.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Failing lists the failed checks in name order.
func (h HealthStatus) Failing() []string {
	var out []string
	for name, res := range h.Checks {
		if res != string(healthuc.CheckOK) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Health runs every check. Only a backend failure makes the status "error".
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	h := HealthStatus{Status: string(report.Status), Checks: make(map[string]string, len(report.Checks))}
	for name, res := range report.Checks {
		h.Checks[name] = string(res)
	}
	return h
}

// Ping fails when the document backend is unreachable. Degraded optional
// dependencies do not fail it.
func (c *Client) Ping(ctx context.Context) error {
	_, err := call(c.obs, "ping", func() (struct{}, error) {
		h := c.Health(ctx)
		if h.Status == string(healthuc.Unhealthy) {
			return struct{}{}, fmt.Errorf("lexsearch: backend unreachable (failing: %s)", strings.Join(h.Failing(), ", "))
		}
		return struct{}{}, nil
	})
	return err
}
