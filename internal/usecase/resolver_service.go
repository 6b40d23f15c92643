package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
	"github.com/TheMidfield/midfield-sync/internal/platform/id"
	"github.com/TheMidfield/midfield-sync/internal/platform/logging"
	"github.com/TheMidfield/midfield-sync/internal/platform/slug"
)

// ResolverService maps upstream entity ids to topic rows, creating
// stub topics on first sight. Stubs carry just enough metadata to be
// referenced; later sync passes fill in the rest.
type ResolverService struct {
	topicRepo topic.Repository
	idGen     id.Generator
	logger    *logging.Logger
}

func NewResolverService(topicRepo topic.Repository, idGen id.Generator, logger *logging.Logger) *ResolverService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	return &ResolverService{
		topicRepo: topicRepo,
		idGen:     idGen,
		logger:    logger,
	}
}

// Resolve returns the topic for an upstream entity, inserting a stub
// when none exists yet. Two concurrent resolvers racing on the same
// entity both get the same topic: the loser of the insert race
// re-reads the winner's row.
func (s *ResolverService) Resolve(ctx context.Context, topicType string, upstreamID int64, title string) (topic.Topic, error) {
	ctx, span := startUsecaseSpan(ctx, "ResolverService.Resolve")
	defer span.End()

	if upstreamID <= 0 {
		return topic.Topic{}, fmt.Errorf("%w: upstream id is required", ErrInvalidInput)
	}

	existing, err := s.topicRepo.FindByUpstreamID(ctx, topicType, upstreamID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, topic.ErrNotFound) {
		return topic.Topic{}, fmt.Errorf("find %s topic upstream_id=%d: %w", topicType, upstreamID, err)
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return topic.Topic{}, fmt.Errorf("generate topic id: %w", err)
	}

	stub := topic.Topic{
		ID:       newID,
		Slug:     slug.WithID(title, upstreamID),
		Type:     topicType,
		Title:    strings.TrimSpace(title),
		IsActive: true,
		Metadata: topic.Metadata{
			External: topic.External{
				Source:     topic.SourceTheSportsDB,
				UpstreamID: upstreamID,
			},
			IsStub: true,
		},
	}

	created, err := s.topicRepo.Insert(ctx, stub)
	if err == nil {
		s.logger.InfoContext(ctx, "created stub topic",
			"topic_type", topicType,
			"upstream_id", upstreamID,
			"slug", stub.Slug,
		)
		return created, nil
	}
	if !errors.Is(err, topic.ErrDuplicate) {
		return topic.Topic{}, fmt.Errorf("insert %s topic upstream_id=%d: %w", topicType, upstreamID, err)
	}

	// Another writer inserted the same entity between our lookup and
	// insert. Their row is authoritative.
	winner, err := s.topicRepo.FindByUpstreamID(ctx, topicType, upstreamID)
	if err != nil {
		return topic.Topic{}, fmt.Errorf("re-find %s topic upstream_id=%d after duplicate: %w", topicType, upstreamID, err)
	}
	return winner, nil
}
