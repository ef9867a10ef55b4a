package ports

import (
	"context"

	"github.com/99minutos/carrier-gateway/internal/core/domain"
)

// TrackingRefreshJob is one queued background tracking lookup.
type TrackingRefreshJob struct {
	CarrierName    string
	TrackingNumber string
	Options        *RequestOptions
}

// TrackingSink receives completed refresh results. Implementations must be
// safe for concurrent use; workers call Deliver from multiple goroutines.
type TrackingSink interface {
	Deliver(ctx context.Context, job TrackingRefreshJob, result *domain.TrackingResponse)
}

// CarrierResolver looks up a registered carrier by name.
type CarrierResolver interface {
	Resolve(name string) (Carrier, error)
}
