package usecase

import (
	"context"
	"fmt"

	"github.com/TheMidfield/midfield-sync/internal/domain/syncjob"
	"github.com/TheMidfield/midfield-sync/internal/domain/topic"
	"github.com/TheMidfield/midfield-sync/internal/platform/logging"
)

type EnrichmentConfig struct {
	// BatchSize caps how many players one pass queues for enrichment.
	BatchSize int
}

type EnrichmentResult struct {
	Candidates int `json:"candidates"`
	Enqueued   int `json:"enqueued"`
}

// EnrichmentService finds player topics still missing detail fields
// and queues an enrich job per player. The pending duplicate guard
// keeps repeated passes from stacking jobs for the same player.
type EnrichmentService struct {
	topicRepo topic.Repository
	jobRepo   syncjob.Repository
	cfg       EnrichmentConfig
	logger    *logging.Logger
}

func NewEnrichmentService(topicRepo topic.Repository, jobRepo syncjob.Repository, cfg EnrichmentConfig, logger *logging.Logger) *EnrichmentService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &EnrichmentService{
		topicRepo: topicRepo,
		jobRepo:   jobRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *EnrichmentService) Run(ctx context.Context) (EnrichmentResult, error) {
	ctx, span := startUsecaseSpan(ctx, "EnrichmentService.Run")
	defer span.End()

	players, err := s.topicRepo.ListPlayersMissingDetails(ctx, s.cfg.BatchSize)
	if err != nil {
		return EnrichmentResult{}, fmt.Errorf("list players missing details: %w", err)
	}

	jobs := make([]syncjob.NewJob, 0, len(players))
	for _, player := range players {
		upstreamID := player.Metadata.External.UpstreamID
		if upstreamID <= 0 {
			continue
		}
		jobs = append(jobs, syncjob.NewJob{
			Type: syncjob.TypeEnrichPlayer,
			Payload: syncjob.PlayerPayload{
				TopicID:          player.ID,
				UpstreamPlayerID: upstreamID,
			},
		})
	}

	enqueued, err := s.jobRepo.Enqueue(ctx, jobs)
	if err != nil {
		return EnrichmentResult{}, fmt.Errorf("enqueue enrich jobs: %w", err)
	}

	result := EnrichmentResult{Candidates: len(players), Enqueued: enqueued}
	s.logger.InfoContext(ctx, "enrichment pass complete",
		"candidates", result.Candidates,
		"enqueued", result.Enqueued,
	)
	return result, nil
}
