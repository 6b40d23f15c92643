package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/TheMidfield/midfield-sync/internal/infrastructure/repository/memory"
)

func TestPurgeDeletesOnlyAgedNotifications(t *testing.T) {
	t.Parallel()

	repo := memory.NewNotificationRepository()
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	repo.Add(now.Add(-31 * 24 * time.Hour))
	repo.Add(now.Add(-40 * 24 * time.Hour))
	repo.Add(now.Add(-5 * 24 * time.Hour))

	svc := NewPurgeService(repo, PurgeConfig{NotificationRetention: 30 * 24 * time.Hour}, nil)
	svc.now = func() time.Time { return now }

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Deleted != 2 {
		t.Fatalf("deleted = %d, want 2", result.Deleted)
	}
	if repo.Count() != 1 {
		t.Fatalf("remaining = %d, want 1", repo.Count())
	}
}

type notificationRepoMock struct {
	mock.Mock
}

func (m *notificationRepoMock) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

func TestPurgeCutoffUsesRetentionWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	retention := 10 * 24 * time.Hour

	repo := &notificationRepoMock{}
	repo.On("DeleteOlderThan", mock.Anything, now.Add(-retention)).Return(7, nil).Once()

	svc := NewPurgeService(repo, PurgeConfig{NotificationRetention: retention}, nil)
	svc.now = func() time.Time { return now }

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Deleted != 7 {
		t.Fatalf("deleted = %d, want 7", result.Deleted)
	}
	repo.AssertExpectations(t)
}

func TestPurgeSurfacesRepositoryError(t *testing.T) {
	t.Parallel()

	repo := &notificationRepoMock{}
	repo.On("DeleteOlderThan", mock.Anything, mock.Anything).Return(0, errors.New("connection reset")).Once()

	svc := NewPurgeService(repo, PurgeConfig{}, nil)

	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected error from repository")
	}
	repo.AssertExpectations(t)
}
