package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/TheMidfield/midfield-sync/internal/usecase"
)

// RunScheduler runs one scheduler tick: reclaim stale jobs and top up
// the queue with league sync jobs.
func (h *Handler) RunScheduler(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScheduler")
	defer span.End()

	if h.schedulerService == nil {
		writeError(ctx, w, fmt.Errorf("%w: scheduler is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.schedulerService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "scheduler tick failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type runWorkerRequest struct {
	MaxJobs int `json:"max_jobs" validate:"omitempty,min=1,max=100"`
}

// RunWorker drains one batch of queued jobs and reports how many jobs
// were processed.
func (h *Handler) RunWorker(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWorker")
	defer span.End()

	if h.workerService == nil {
		writeError(ctx, w, fmt.Errorf("%w: worker is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req runWorkerRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.workerService.RunOnce(ctx, req.MaxJobs)
	if err != nil {
		h.logger.ErrorContext(ctx, "worker batch failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunDailySchedule refreshes league and club schedules, then the
// league tables.
func (h *Handler) RunDailySchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDailySchedule")
	defer span.End()

	if h.scheduleSync == nil {
		writeError(ctx, w, fmt.Errorf("%w: schedule sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	schedules, err := h.scheduleSync.SyncSchedules(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "daily schedule sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	standings, err := h.scheduleSync.SyncStandings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "standings sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"schedules": schedules,
		"standings": standings,
	})
}

// RunLivescores polls live scores for fixtures near kickoff.
func (h *Handler) RunLivescores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLivescores")
	defer span.End()

	if h.livescoreService == nil {
		writeError(ctx, w, fmt.Errorf("%w: livescore sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.livescoreService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "livescore sync failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunEnrichment queues enrich jobs for players missing detail fields.
func (h *Handler) RunEnrichment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunEnrichment")
	defer span.End()

	if h.enrichmentService == nil {
		writeError(ctx, w, fmt.Errorf("%w: enrichment is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.enrichmentService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "enrichment pass failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunPurgeNotifications deletes notifications older than the retention
// window.
func (h *Handler) RunPurgeNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPurgeNotifications")
	defer span.End()

	if h.purgeService == nil {
		writeError(ctx, w, fmt.Errorf("%w: purge is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.purgeService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "notification purge failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// decodeOptionalBody decodes a JSON body into target, treating an
// empty body as the zero value. Cron schedulers often POST with no
// payload at all.
func decodeOptionalBody(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
