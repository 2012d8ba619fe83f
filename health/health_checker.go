// Package health reports whether the record store answers and whether the
// name index still reflects it.
package health

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/giygas/openbnf/interfaces"
	"github.com/giygas/openbnf/logging"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"

	defaultCheckTimeout = 2 * time.Second
)

var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store   interfaces.RecordStore
	index   interfaces.NameIndexInfo
	timeout time.Duration
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(store interfaces.RecordStore, index interfaces.NameIndexInfo) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		store:   store,
		index:   index,
		timeout: defaultCheckTimeout,
	}
}

// HealthCheck pings the store and compares its record count with the name
// index. A store that cannot be reached or an empty index is unhealthy; a
// count that drifted from the index is degraded, since suggestions then miss
// or invent names until the next restart.
func (h *HealthCheckerImpl) HealthCheck(ctx context.Context) (status string, data map[string]any, httpStatus int) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	indexSize := h.index.Len()
	builtAt := h.index.BuiltAt()
	indexAge := time.Since(builtAt)

	data = map[string]any{
		"name_index_size":  indexSize,
		"index_built_at":   builtAt.Format(time.RFC3339),
		"index_age_hours":  math.Round(indexAge.Hours()*10) / 10,
		"store_reachable":  true,
		"store_records":    int64(-1),
		"index_up_to_date": false,
	}

	if err := h.store.Ping(ctx); err != nil {
		logging.Warn("Health check: store ping failed", "error", err)
		data["store_reachable"] = false
		return StatusUnhealthy, data, http.StatusServiceUnavailable
	}

	count, err := h.store.Count(ctx)
	if err != nil {
		logging.Warn("Health check: store count failed", "error", err)
		data["store_reachable"] = false
		return StatusUnhealthy, data, http.StatusServiceUnavailable
	}
	data["store_records"] = count
	data["index_up_to_date"] = count == int64(indexSize)

	switch {
	case indexSize == 0:
		return StatusUnhealthy, data, http.StatusServiceUnavailable
	case count != int64(indexSize):
		return StatusDegraded, data, http.StatusOK
	default:
		return StatusHealthy, data, http.StatusOK
	}
}
