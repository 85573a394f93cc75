package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studio/internal/domain"
	"studio/internal/workflow"
)

type submitResponse struct {
	GenerationID string `json:"generation_id"`
	Status       string `json:"status"`
}

// WorkflowSubmit accepts a workflow request, dispatches it to the compute
// backend, and returns as soon as the job is accepted. Completion is driven
// by a background poll loop started here.
func (a *App) WorkflowSubmit(w http.ResponseWriter, r *http.Request) {
	var req workflow.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.WorkflowType == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "workflow_type is required")
		return
	}
	if req.UserID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return
	}

	result, err := a.Workflows.SubmitWorkflow(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRemoteSubmission):
			a.error(w, http.StatusBadGateway, "remote_submission_failed", "compute backend rejected the job")
		case errors.Is(err, domain.ErrPersistence):
			a.error(w, http.StatusInternalServerError, "persistence_failed", "failed to create generation record")
		default:
			a.error(w, http.StatusInternalServerError, "internal", "failed to submit workflow")
		}
		return
	}

	a.startPoller(result.GenerationID, result.ExternalJobID)
	a.json(w, http.StatusAccepted, submitResponse{GenerationID: result.GenerationID, Status: string(result.Status)})
}

// startPoller launches the poll loop for a generation unless one is already
// running. The registry guarantees at most one loop per generation id within
// this process; the resume worker covers loops lost to restarts.
func (a *App) startPoller(generationID, externalJobID string) {
	if _, loaded := a.pollers.LoadOrStore(generationID, struct{}{}); loaded {
		return
	}
	go func() {
		defer a.pollers.Delete(generationID)
		if _, err := a.Workflows.PollUntilComplete(context.Background(), generationID, externalJobID, a.Poll); err != nil {
			a.Logger.Warn().Err(err).
				Str("generation_id", generationID).
				Msg("poll loop ended without terminal state")
		}
	}()
}

// WorkflowStatus returns the persisted state of a generation.
func (a *App) WorkflowStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "generation_id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "generation_id required")
		return
	}
	record, err := a.Records.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "generation not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load generation")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"id":              record.ID,
		"user_id":         record.UserID,
		"workflow_type":   record.WorkflowType,
		"workflow_label":  record.WorkflowType.Label(),
		"method":          record.Method,
		"status":          record.Status,
		"external_job_id": record.ExternalJobID,
		"output_urls":     record.OutputURLs,
		"error_message":   record.ErrorMessage,
		"created_at":      record.CreatedAt,
		"updated_at":      record.UpdatedAt,
		"completed_at":    record.CompletedAt,
	})
}
