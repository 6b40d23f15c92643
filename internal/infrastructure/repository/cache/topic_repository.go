package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
	basecache "github.com/TheMidfield/midfield-sync/internal/platform/cache"
)

// TopicRepository caches read paths in front of another topic
// repository. The livescore poller re-reads the same handful of league
// topics every tick, so even a short TTL removes most of that load.
type TopicRepository struct {
	next  topic.Repository
	cache *basecache.Store
}

func NewTopicRepository(next topic.Repository, cache *basecache.Store) *TopicRepository {
	return &TopicRepository{next: next, cache: cache}
}

func topicIDKey(id string) string {
	return "topic:id:" + id
}

func topicUpstreamKey(topicType string, upstreamID int64) string {
	return "topic:upstream:" + topicType + ":" + strconv.FormatInt(upstreamID, 10)
}

func (r *TopicRepository) GetByID(ctx context.Context, id string) (topic.Topic, error) {
	v, err := r.cache.GetOrLoad(ctx, topicIDKey(id), func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return topic.Topic{}, err
	}

	t, ok := v.(topic.Topic)
	if !ok {
		return topic.Topic{}, fmt.Errorf("unexpected cache value type %T for topic %s", v, id)
	}

	return t, nil
}

func (r *TopicRepository) FindByUpstreamID(ctx context.Context, topicType string, upstreamID int64) (topic.Topic, error) {
	v, err := r.cache.GetOrLoad(ctx, topicUpstreamKey(topicType, upstreamID), func(ctx context.Context) (any, error) {
		return r.next.FindByUpstreamID(ctx, topicType, upstreamID)
	})
	if err != nil {
		return topic.Topic{}, err
	}

	t, ok := v.(topic.Topic)
	if !ok {
		return topic.Topic{}, fmt.Errorf("unexpected cache value type %T for %s upstream %d", v, topicType, upstreamID)
	}

	return t, nil
}

func (r *TopicRepository) Insert(ctx context.Context, t topic.Topic) (topic.Topic, error) {
	inserted, err := r.next.Insert(ctx, t)
	if err != nil {
		return topic.Topic{}, err
	}
	r.invalidate(ctx, inserted)

	return inserted, nil
}

func (r *TopicRepository) Update(ctx context.Context, t topic.Topic) error {
	if err := r.next.Update(ctx, t); err != nil {
		return err
	}
	r.invalidate(ctx, t)

	return nil
}

// ListPlayersMissingDetails is deliberately uncached. The enrichment
// pass must see the freshest metadata or it keeps re-queueing players
// that were already filled in.
func (r *TopicRepository) ListPlayersMissingDetails(ctx context.Context, limit int) ([]topic.Topic, error) {
	return r.next.ListPlayersMissingDetails(ctx, limit)
}

func (r *TopicRepository) invalidate(ctx context.Context, t topic.Topic) {
	r.cache.Delete(ctx, topicIDKey(t.ID))
	if t.Metadata.External.UpstreamID > 0 {
		r.cache.Delete(ctx, topicUpstreamKey(t.Type, t.Metadata.External.UpstreamID))
	}
}
