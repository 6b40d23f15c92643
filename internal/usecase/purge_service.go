package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/TheMidfield/midfield-sync/internal/domain/notification"
	"github.com/TheMidfield/midfield-sync/internal/platform/logging"
)

type PurgeConfig struct {
	// NotificationRetention is how long delivered notifications are
	// kept before the nightly purge removes them.
	NotificationRetention time.Duration
}

type PurgeResult struct {
	Deleted int `json:"deleted"`
}

// PurgeService trims aged notification rows.
type PurgeService struct {
	notificationRepo notification.Repository
	cfg              PurgeConfig
	logger           *logging.Logger
	now              func() time.Time
}

func NewPurgeService(notificationRepo notification.Repository, cfg PurgeConfig, logger *logging.Logger) *PurgeService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.NotificationRetention <= 0 {
		cfg.NotificationRetention = 30 * 24 * time.Hour
	}
	return &PurgeService{
		notificationRepo: notificationRepo,
		cfg:              cfg,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *PurgeService) Run(ctx context.Context) (PurgeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "PurgeService.Run")
	defer span.End()

	cutoff := s.now().UTC().Add(-s.cfg.NotificationRetention)
	deleted, err := s.notificationRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("purge notifications: %w", err)
	}

	s.logger.InfoContext(ctx, "notification purge complete", "deleted", deleted)
	return PurgeResult{Deleted: deleted}, nil
}
