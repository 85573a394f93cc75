package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"studio/internal/adapter/repo"
	"studio/internal/compute"
	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/workflow"
)

const sweepInterval = 30 * time.Second

// resumeWorker sweeps generation records that are still processing with a
// backend job id but no active poller (an API restart kills in-flight poll
// loops) and resumes polling them. Records whose poll budget runs out stay in
// processing and are picked up again by a later sweep.
type resumeWorker struct {
	ctx        context.Context
	records    domain.GenerationRepository
	service    *workflow.Service
	logger     infra.Logger
	staleAfter time.Duration
	batchSize  int
	poll       workflow.PollOptions
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	records := repo.NewGenerationRepository(pool)
	backend := compute.NewClient(compute.Options{
		BaseURL: cfg.ComputeBaseURL,
		APIKey:  cfg.ComputeAPIKey,
		Timeout: cfg.ComputeTimeout,
	})

	worker := &resumeWorker{
		ctx:        ctx,
		records:    records,
		service:    workflow.NewService(records, backend, logger),
		logger:     logger,
		staleAfter: cfg.ResumeStaleAfter,
		batchSize:  cfg.ResumeBatchSize,
		poll: workflow.PollOptions{
			MaxAttempts: cfg.PollMaxAttempts,
			Interval:    cfg.PollInterval,
		},
	}

	if err := worker.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (w *resumeWorker) Run() error {
	w.logger.Info().Msg("worker: started")
	for {
		w.sweep()

		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-time.After(sweepInterval):
		}
	}
}

func (w *resumeWorker) sweep() {
	stale, err := w.records.ListResumable(w.ctx, w.staleAfter, w.batchSize)
	if err != nil {
		w.logger.Error().Err(err).Msg("worker: failed to list resumable generations")
		return
	}
	if len(stale) == 0 {
		return
	}
	w.logger.Info().Int("count", len(stale)).Msg("worker: resuming stale generations")

	var wg sync.WaitGroup
	for _, record := range stale {
		if record.ExternalJobID == nil {
			// Orphan record: submission never succeeded, nothing to poll.
			continue
		}
		wg.Add(1)
		go func(generationID, externalJobID string) {
			defer wg.Done()
			if _, err := w.service.PollUntilComplete(w.ctx, generationID, externalJobID, w.poll); err != nil {
				w.logger.Warn().Err(err).
					Str("generation_id", generationID).
					Msg("worker: resumed poll ended without terminal state")
			}
		}(record.ID, *record.ExternalJobID)
	}
	wg.Wait()
}
