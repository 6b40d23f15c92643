package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, cronSecrets []string) {
	mux.Handle("POST /v1/internal/cron/scheduler", RequireCronAuth(cronSecrets, http.HandlerFunc(handler.RunScheduler)))
	mux.Handle("POST /v1/internal/cron/daily-schedule", RequireCronAuth(cronSecrets, http.HandlerFunc(handler.RunDailySchedule)))
	mux.Handle("POST /v1/internal/cron/livescores", RequireCronAuth(cronSecrets, http.HandlerFunc(handler.RunLivescores)))
	mux.Handle("POST /v1/internal/cron/purge-notifications", RequireCronAuth(cronSecrets, http.HandlerFunc(handler.RunPurgeNotifications)))
	mux.Handle("POST /v1/internal/jobs/worker", RequireCronAuth(cronSecrets, http.HandlerFunc(handler.RunWorker)))
	mux.Handle("POST /v1/internal/jobs/enrich", RequireCronAuth(cronSecrets, http.HandlerFunc(handler.RunEnrichment)))
}
