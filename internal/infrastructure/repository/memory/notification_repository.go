package memory

import (
	"context"
	"sync"
	"time"
)

type NotificationRepository struct {
	mu        sync.Mutex
	createdAt []time.Time
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// Add records a notification timestamp for tests.
func (r *NotificationRepository) Add(createdAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createdAt = append(r.createdAt, createdAt)
}

func (r *NotificationRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.createdAt[:0]
	deleted := 0
	for _, at := range r.createdAt {
		if at.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, at)
	}
	r.createdAt = kept
	return deleted, nil
}

// Count reports how many notifications remain.
func (r *NotificationRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.createdAt)
}
