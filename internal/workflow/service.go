package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"studio/internal/compute"
	"studio/internal/domain"
)

const (
	// DefaultMethod is recorded when the submission omits a selection mode.
	DefaultMethod = "automatic"
	// DefaultOutputCount is the number of outputs requested when unset.
	DefaultOutputCount = 2
	// DefaultOutputFormat is the output format requested when unset.
	DefaultOutputFormat = "webp"
	// DefaultMaxAttempts bounds the polling loop.
	DefaultMaxAttempts = 60
	// DefaultPollInterval is the sleep between poll attempts.
	DefaultPollInterval = 5 * time.Second
)

// PollOptions tunes the polling loop. Zero values fall back to the defaults,
// giving the standard 60 attempts at 5 second spacing.
type PollOptions struct {
	MaxAttempts int
	Interval    time.Duration
}

// Service orchestrates workflow dispatch: it creates the local generation
// record, submits the normalized payload to the compute backend, and drives
// the record to a terminal state through polling. Collaborators are injected
// so tests can substitute fakes for all of them.
type Service struct {
	records domain.GenerationRepository
	backend compute.Backend
	logger  zerolog.Logger
}

// NewService constructs a dispatch service.
func NewService(records domain.GenerationRepository, backend compute.Backend, logger zerolog.Logger) *Service {
	return &Service{records: records, backend: backend, logger: logger}
}

// SubmitWorkflow creates a generation record, submits the job to the compute
// backend, and links the backend job id to the record. It returns as soon as
// the backend accepts the job; completion is driven by PollUntilComplete.
//
// If the backend submission fails, the record is left in processing with no
// external job id (an orphan record) and the error is surfaced as
// domain.ErrRemoteSubmission.
func (s *Service) SubmitWorkflow(ctx context.Context, req Request) (*SubmitResult, error) {
	method := req.Settings.Method
	if method == "" {
		method = DefaultMethod
	}

	generationID, err := s.records.Create(ctx, req.UserID, req.WorkflowType, method, req.InputData)
	if err != nil {
		return nil, fmt.Errorf("submit workflow: %w", err)
	}

	payload := compute.JobPayload{
		WorkflowType: string(req.WorkflowType),
		Input:        Normalize(req.WorkflowType, req.InputData),
		NumOutputs:   req.Settings.OutputCount,
		OutputFormat: req.Settings.OutputFormat,
	}
	if payload.NumOutputs <= 0 {
		payload.NumOutputs = DefaultOutputCount
	}
	if payload.OutputFormat == "" {
		payload.OutputFormat = DefaultOutputFormat
	}

	job, err := s.backend.SubmitJob(ctx, payload)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("generation_id", generationID).
			Str("workflow_type", string(req.WorkflowType)).
			Msg("workflow: submission failed, record orphaned in processing")
		return nil, fmt.Errorf("%w: %v", domain.ErrRemoteSubmission, err)
	}

	if err := s.records.AttachExternalID(ctx, generationID, job.ID); err != nil {
		return nil, fmt.Errorf("submit workflow: %w", err)
	}

	s.logger.Info().
		Str("generation_id", generationID).
		Str("external_job_id", job.ID).
		Str("workflow_type", string(req.WorkflowType)).
		Msg("workflow: submitted")

	return &SubmitResult{
		GenerationID:  generationID,
		ExternalJobID: job.ID,
		Status:        domain.GenerationProcessing,
	}, nil
}

// PollUntilComplete checks the backend job status until it reaches a terminal
// state, updating the generation record exactly once on the way out. A status
// check that errors aborts the loop immediately with domain.ErrRemoteStatus.
// Exhausting the attempt budget returns domain.ErrPollingTimeout and leaves
// the record in processing; an explicit backend FAILED marks the record
// failed. At most one poll loop may run per generation id; enforcing that is
// the caller's responsibility.
func (s *Service) PollUntilComplete(ctx context.Context, generationID, externalJobID string, opts PollOptions) (*Result, error) {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		job, err := s.backend.JobStatus(ctx, externalJobID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRemoteStatus, err)
		}

		switch {
		case job.Status == compute.StatusCompleted && job.Output != nil && len(job.Output.Images) > 0:
			urls := job.Output.Images
			if err := s.records.MarkCompleted(ctx, generationID, urls, time.Now().UTC()); err != nil {
				return nil, fmt.Errorf("poll workflow: %w", err)
			}
			s.logger.Info().
				Str("generation_id", generationID).
				Int("outputs", len(urls)).
				Int("attempts", attempt).
				Msg("workflow: completed")
			return &Result{GenerationID: generationID, Status: domain.GenerationCompleted, ImageURLs: urls}, nil

		case job.Status == compute.StatusFailed:
			message := job.Error
			if message == "" {
				message = "Job failed"
			}
			if err := s.records.MarkFailed(ctx, generationID, message); err != nil {
				return nil, fmt.Errorf("poll workflow: %w", err)
			}
			s.logger.Info().
				Str("generation_id", generationID).
				Str("error", message).
				Int("attempts", attempt).
				Msg("workflow: failed")
			return &Result{GenerationID: generationID, Status: domain.GenerationFailed, Error: message}, nil
		}

		// IN_QUEUE, IN_PROGRESS, or COMPLETED without images: keep polling.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}

	// The record deliberately stays in processing here so a later poll can
	// still pick the job up; only an explicit backend failure marks it failed.
	return nil, fmt.Errorf("%w: job %s not terminal after %d attempts", domain.ErrPollingTimeout, externalJobID, maxAttempts)
}
