package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/TheMidfield/midfield-sync/internal/usecase"
)

type Handler struct {
	schedulerService  *usecase.SchedulerService
	workerService     *usecase.WorkerService
	scheduleSync      *usecase.ScheduleSyncService
	livescoreService  *usecase.LivescoreService
	enrichmentService *usecase.EnrichmentService
	purgeService      *usecase.PurgeService
	logger            *slog.Logger
	validator         *validator.Validate
}

func NewHandler(
	schedulerService *usecase.SchedulerService,
	workerService *usecase.WorkerService,
	scheduleSync *usecase.ScheduleSyncService,
	livescoreService *usecase.LivescoreService,
	enrichmentService *usecase.EnrichmentService,
	purgeService *usecase.PurgeService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		schedulerService:  schedulerService,
		workerService:     workerService,
		scheduleSync:      scheduleSync,
		livescoreService:  livescoreService,
		enrichmentService: enrichmentService,
		purgeService:      purgeService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
