package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/TheMidfield/midfield-sync/internal/usecase"
)

// Responses follow the Google JSON style guide envelope: every body has
// an apiVersion plus either data or error, never both.
const (
	googleAPIVersion = "2.0"
	errorDomain      = "midfield-sync"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, reason, grpcStatus := classifyError(err)
	writeErrorBody(ctx, w, status, reason, grpcStatus, err.Error())
}

// writeInternalError hides the underlying error from the client. Panics
// and other unclassified failures go through here.
func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeErrorBody(ctx, w, http.StatusInternalServerError, "internalError", "INTERNAL", "internal server error")
}

func writeErrorBody(ctx context.Context, w http.ResponseWriter, status int, reason, grpcStatus, msg string) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    status,
			Message: msg,
			Status:  grpcStatus,
			Errors: []googleErrorItem{
				{Domain: errorDomain, Reason: reason, Message: msg},
			},
		},
	})
}

func classifyError(err error) (status int, reason, grpcStatus string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound, "notFound", "NOT_FOUND"
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "internalError", "INTERNAL"
	}
}
