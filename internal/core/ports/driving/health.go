package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// HealthService reports whether the pipeline's providers are reachable.
type HealthService interface {
	// Check pings every dependency. Failures are reported, not returned.
	Check(ctx context.Context) *domain.HealthReport
}
