package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
)

// TopicRepository keeps topics in memory, enforcing the same slug and
// upstream-id uniqueness the postgres schema does.
type TopicRepository struct {
	mu     sync.Mutex
	nextID int
	items  map[string]topic.Topic
}

func NewTopicRepository() *TopicRepository {
	return &TopicRepository{items: make(map[string]topic.Topic)}
}

func (r *TopicRepository) GetByID(_ context.Context, id string) (topic.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok {
		return topic.Topic{}, topic.ErrNotFound
	}
	return t, nil
}

func (r *TopicRepository) FindByUpstreamID(_ context.Context, topicType string, upstreamID int64) (topic.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.items {
		if t.Type == topicType && t.Metadata.External.UpstreamID == upstreamID {
			return t, nil
		}
	}
	return topic.Topic{}, topic.ErrNotFound
}

func (r *TopicRepository) Insert(_ context.Context, t topic.Topic) (topic.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Slug == t.Slug {
			return topic.Topic{}, topic.ErrDuplicate
		}
		if existing.Type == t.Type &&
			existing.Metadata.External.UpstreamID != 0 &&
			existing.Metadata.External.UpstreamID == t.Metadata.External.UpstreamID {
			return topic.Topic{}, topic.ErrDuplicate
		}
	}

	if t.ID == "" {
		r.nextID++
		t.ID = "topic-" + strconv.Itoa(r.nextID)
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.items[t.ID] = t
	return t, nil
}

func (r *TopicRepository) Update(_ context.Context, t topic.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[t.ID]
	if !ok {
		return topic.ErrNotFound
	}
	existing.Title = t.Title
	existing.Description = t.Description
	existing.IsActive = t.IsActive
	existing.Metadata = t.Metadata
	existing.UpdatedAt = time.Now()
	r.items[t.ID] = existing
	return nil
}

func (r *TopicRepository) ListPlayersMissingDetails(_ context.Context, limit int) ([]topic.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]topic.Topic, 0, limit)
	for _, t := range r.items {
		if t.Type != topic.TypePlayer {
			continue
		}
		m := t.Metadata
		if m.Nationality != "" && m.Height != "" && m.JerseyNumber != "" {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count reports how many topics are stored.
func (r *TopicRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
