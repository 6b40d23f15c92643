package topic

import "context"

// Repository exposes topic persistence. Lookups by upstream id are the
// pipeline's identity primitive; Insert must surface ErrDuplicate on a
// slug or upstream-id collision so callers can absorb creation races.
type Repository interface {
	GetByID(ctx context.Context, id string) (Topic, error)
	FindByUpstreamID(ctx context.Context, topicType string, upstreamID int64) (Topic, error)
	Insert(ctx context.Context, t Topic) (Topic, error)
	// Update rewrites title, description and metadata. The slug and id
	// are immutable once assigned.
	Update(ctx context.Context, t Topic) error
	// ListPlayersMissingDetails returns player topics whose metadata
	// still lacks core attributes, up to limit.
	ListPlayersMissingDetails(ctx context.Context, limit int) ([]Topic, error)
}
