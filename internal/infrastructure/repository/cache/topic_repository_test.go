package cache

import (
	"context"
	"testing"
	"time"

	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
	"github.com/TheMidfield/midfield-sync/internal/infrastructure/repository/memory"
	basecache "github.com/TheMidfield/midfield-sync/internal/platform/cache"
)

type countingTopicRepo struct {
	*memory.TopicRepository
	getByID int
}

func (r *countingTopicRepo) GetByID(ctx context.Context, id string) (topic.Topic, error) {
	r.getByID++
	return r.TopicRepository.GetByID(ctx, id)
}

func TestTopicRepository_GetByIDCachesReads(t *testing.T) {
	ctx := context.Background()
	next := &countingTopicRepo{TopicRepository: memory.NewTopicRepository()}
	repo := NewTopicRepository(next, basecache.NewStore(time.Minute))

	seeded, err := next.Insert(ctx, topic.Topic{
		ID:    "topic-league-epl",
		Slug:  "english-premier-league-4328",
		Type:  topic.TypeLeague,
		Title: "English Premier League",
		Metadata: topic.Metadata{
			External: topic.External{Source: topic.SourceTheSportsDB, UpstreamID: 4328},
		},
	})
	if err != nil {
		t.Fatalf("seed topic: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := repo.GetByID(ctx, seeded.ID)
		if err != nil {
			t.Fatalf("get topic: %v", err)
		}
		if got.Title != "English Premier League" {
			t.Fatalf("unexpected title %q", got.Title)
		}
	}

	if next.getByID != 1 {
		t.Fatalf("expected 1 backing read, got %d", next.getByID)
	}
}

func TestTopicRepository_UpdateInvalidates(t *testing.T) {
	ctx := context.Background()
	next := &countingTopicRepo{TopicRepository: memory.NewTopicRepository()}
	repo := NewTopicRepository(next, basecache.NewStore(time.Minute))

	seeded, err := next.Insert(ctx, topic.Topic{
		ID:    "topic-club-arsenal",
		Slug:  "arsenal-133604",
		Type:  topic.TypeClub,
		Title: "Arsenal",
		Metadata: topic.Metadata{
			External: topic.External{Source: topic.SourceTheSportsDB, UpstreamID: 133604},
		},
	})
	if err != nil {
		t.Fatalf("seed topic: %v", err)
	}

	if _, err := repo.GetByID(ctx, seeded.ID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	seeded.Title = "Arsenal FC"
	if err := repo.Update(ctx, seeded); err != nil {
		t.Fatalf("update topic: %v", err)
	}

	got, err := repo.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("get topic: %v", err)
	}
	if got.Title != "Arsenal FC" {
		t.Fatalf("stale read after update: %q", got.Title)
	}
}

func TestTopicRepository_MissesAreNotCached(t *testing.T) {
	ctx := context.Background()
	next := &countingTopicRepo{TopicRepository: memory.NewTopicRepository()}
	repo := NewTopicRepository(next, basecache.NewStore(time.Minute))

	if _, err := repo.FindByUpstreamID(ctx, topic.TypeClub, 133602); err == nil {
		t.Fatal("expected miss for unknown upstream id")
	}

	if _, err := next.Insert(ctx, topic.Topic{
		ID:   "topic-club-liverpool",
		Slug: "liverpool-133602",
		Type: topic.TypeClub,
		Metadata: topic.Metadata{
			External: topic.External{Source: topic.SourceTheSportsDB, UpstreamID: 133602},
		},
	}); err != nil {
		t.Fatalf("seed topic: %v", err)
	}

	if _, err := repo.FindByUpstreamID(ctx, topic.TypeClub, 133602); err != nil {
		t.Fatalf("expected hit after insert, got %v", err)
	}
}
