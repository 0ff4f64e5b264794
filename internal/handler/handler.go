// Package handler exposes the deletion service through a Lambda-style
// request/response envelope shared by the Lambda entrypoint and the local
// CLI.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/codelynx/photolala-deletion/internal/config"
	"github.com/codelynx/photolala-deletion/internal/deletion"
	"github.com/codelynx/photolala-deletion/internal/logging"
)

// Actions accepted in Event.Type.
const (
	ActionScheduled = "scheduled"
	ActionImmediate = "immediate"
	ActionStatus    = "status"
)

// Event is the invocation payload. An empty Type means ActionScheduled, the
// timer-driven default.
type Event struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	JobID  string `json:"jobId"`
}

// Response mirrors the API-gateway style envelope: a status code and a
// JSON-encoded body.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Handler dispatches events to the deletion service.
type Handler struct {
	svc *deletion.Service
	cfg *config.Config
	log logging.Logger
}

// New returns a Handler over the given service.
func New(svc *deletion.Service, cfg *config.Config, log logging.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, log: log}
}

// Handle routes one event. Every outcome, including failures, is reported
// through the Response envelope; the returned error stays nil so the Lambda
// runtime never retries on our behalf.
func (h *Handler) Handle(ctx context.Context, event Event) (resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error(ctx, "handler panic", "panic", r)
			resp = errorResponse(http.StatusInternalServerError, fmt.Sprintf("internal error: %v", r))
			err = nil
		}
	}()

	action := event.Type
	if action == "" {
		action = ActionScheduled
	}
	h.log.Info(ctx, "handling event", "action", action)

	switch action {
	case ActionScheduled:
		return h.handleScheduled(ctx), nil
	case ActionImmediate:
		return h.handleImmediate(ctx, event), nil
	case ActionStatus:
		return h.handleStatus(ctx, event), nil
	default:
		return errorResponse(http.StatusBadRequest, fmt.Sprintf("Unknown action: %s", action)), nil
	}
}

func (h *Handler) handleScheduled(ctx context.Context) Response {
	result := h.svc.ProcessScheduledDeletions(ctx)
	return jsonResponse(http.StatusOK, result)
}

func (h *Handler) handleImmediate(ctx context.Context, event Event) Response {
	if h.cfg.Environment != config.EnvDevelopment {
		return errorResponse(http.StatusForbidden, "Immediate deletion only allowed in development")
	}
	if event.UserID == "" {
		return errorResponse(http.StatusBadRequest, "userId required")
	}

	outcome, err := h.svc.DeleteUserAccount(ctx, event.UserID)
	if err != nil {
		if errors.Is(err, deletion.ErrDeletionInFlight) {
			return errorResponse(http.StatusConflict, err.Error())
		}
		h.log.Error(ctx, "immediate deletion failed", "userId", event.UserID, "error", err)
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
	return jsonResponse(http.StatusOK, outcome)
}

func (h *Handler) handleStatus(ctx context.Context, event Event) Response {
	if event.JobID == "" {
		return errorResponse(http.StatusBadRequest, "jobId required")
	}
	return jsonResponse(http.StatusOK, h.svc.BatchJobStatus(ctx, event.JobID))
}

func jsonResponse(code int, body any) Response {
	data, err := json.Marshal(body)
	if err != nil {
		return errorResponse(http.StatusInternalServerError, err.Error())
	}
	return Response{StatusCode: code, Body: string(data)}
}

func errorResponse(code int, message string) Response {
	data, _ := json.Marshal(map[string]string{"error": message})
	return Response{StatusCode: code, Body: string(data)}
}
