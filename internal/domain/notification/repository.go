package notification

import (
	"context"
	"time"
)

// Repository covers the sync service's only notification concern:
// retention. Delivery belongs to the main product backend.
type Repository interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
