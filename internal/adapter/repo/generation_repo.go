package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studio/internal/domain"
)

// GenerationRepositoryPG implements domain.GenerationRepository.
type GenerationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewGenerationRepository creates a generation repository backed by PostgreSQL.
func NewGenerationRepository(pool *pgxpool.Pool) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{pool: pool}
}

// Create inserts a new generation record in processing state and returns its id.
func (r *GenerationRepositoryPG) Create(ctx context.Context, userID string, workflowType domain.WorkflowType, method string, inputData map[string]any) (string, error) {
	inputJSON, err := json.Marshal(inputData)
	if err != nil {
		return "", fmt.Errorf("%w: encode input data: %v", domain.ErrPersistence, err)
	}
	id := uuid.NewString()
	query := `
INSERT INTO generations (id, user_id, workflow_type, method, input_data, status)
VALUES ($1, $2, $3, $4, $5, $6);
`
	if _, err := r.pool.Exec(ctx, query, id, userID, workflowType, method, inputJSON, domain.GenerationProcessing); err != nil {
		return "", fmt.Errorf("%w: create generation: %v", domain.ErrPersistence, err)
	}
	return id, nil
}

// AttachExternalID links the compute backend job id to an existing record.
func (r *GenerationRepositoryPG) AttachExternalID(ctx context.Context, id, externalJobID string) error {
	query := `
UPDATE generations
SET external_job_id = $2,
    updated_at = NOW()
WHERE id = $1;
`
	if _, err := r.pool.Exec(ctx, query, id, externalJobID); err != nil {
		return fmt.Errorf("%w: attach external id: %v", domain.ErrPersistence, err)
	}
	return nil
}

// MarkCompleted transitions a processing record to completed. The status
// guard in the WHERE clause keeps terminal records immutable.
func (r *GenerationRepositoryPG) MarkCompleted(ctx context.Context, id string, outputURLs []string, completedAt time.Time) error {
	query := `
UPDATE generations
SET status = $2,
    output_urls = $3,
    completed_at = $4,
    updated_at = NOW()
WHERE id = $1 AND status = $5;
`
	tag, err := r.pool.Exec(ctx, query, id, domain.GenerationCompleted, outputURLs, completedAt, domain.GenerationProcessing)
	if err != nil {
		return fmt.Errorf("%w: mark completed: %v", domain.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: mark completed: generation %s is not processing", domain.ErrPersistence, id)
	}
	return nil
}

// MarkFailed transitions a processing record to failed with an error message.
func (r *GenerationRepositoryPG) MarkFailed(ctx context.Context, id, errorMessage string) error {
	query := `
UPDATE generations
SET status = $2,
    error_message = $3,
    completed_at = NOW(),
    updated_at = NOW()
WHERE id = $1 AND status = $4;
`
	tag, err := r.pool.Exec(ctx, query, id, domain.GenerationFailed, errorMessage, domain.GenerationProcessing)
	if err != nil {
		return fmt.Errorf("%w: mark failed: %v", domain.ErrPersistence, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: mark failed: generation %s is not processing", domain.ErrPersistence, id)
	}
	return nil
}

// GetByID fetches a generation record by its identifier.
func (r *GenerationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.GenerationRecord, error) {
	query := `
SELECT id, user_id, workflow_type, method, input_data, external_job_id, status, output_urls, error_message, created_at, updated_at, completed_at
FROM generations
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	record, err := scanGeneration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get generation: %v", domain.ErrPersistence, err)
	}
	return record, nil
}

// ListResumable claims processing records that have a backend job id but no
// recent activity, bumping updated_at so concurrent sweepers skip them.
func (r *GenerationRepositoryPG) ListResumable(ctx context.Context, staleAfter time.Duration, limit int) ([]domain.GenerationRecord, error) {
	query := `
UPDATE generations
SET updated_at = NOW()
WHERE id IN (
    SELECT id
    FROM generations
    WHERE status = $1
      AND external_job_id IS NOT NULL
      AND updated_at < NOW() - make_interval(secs => $2)
    ORDER BY updated_at ASC
    LIMIT $3
    FOR UPDATE SKIP LOCKED
)
RETURNING id, user_id, workflow_type, method, input_data, external_job_id, status, output_urls, error_message, created_at, updated_at, completed_at;
`
	rows, err := r.pool.Query(ctx, query, domain.GenerationProcessing, staleAfter.Seconds(), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list resumable: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var records []domain.GenerationRecord
	for rows.Next() {
		record, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: list resumable: %v", domain.ErrPersistence, err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list resumable: %v", domain.ErrPersistence, err)
	}
	return records, nil
}

func scanGeneration(row pgx.Row) (*domain.GenerationRecord, error) {
	var (
		record    domain.GenerationRecord
		inputJSON []byte
	)
	if err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.WorkflowType,
		&record.Method,
		&inputJSON,
		&record.ExternalJobID,
		&record.Status,
		&record.OutputURLs,
		&record.ErrorMessage,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.CompletedAt,
	); err != nil {
		return nil, err
	}
	if len(inputJSON) > 0 {
		if err := json.Unmarshal(inputJSON, &record.InputData); err != nil {
			return nil, err
		}
	}
	return &record, nil
}
