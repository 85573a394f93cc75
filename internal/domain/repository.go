package domain

import (
	"context"
	"time"
)

// GenerationRepository defines persistence for generation records. Create
// assigns the record identifier; the remaining writes update by id. Terminal
// updates are only valid while the record is still processing.
type GenerationRepository interface {
	Create(ctx context.Context, userID string, workflowType WorkflowType, method string, inputData map[string]any) (string, error)
	AttachExternalID(ctx context.Context, id, externalJobID string) error
	MarkCompleted(ctx context.Context, id string, outputURLs []string, completedAt time.Time) error
	MarkFailed(ctx context.Context, id, errorMessage string) error
	GetByID(ctx context.Context, id string) (*GenerationRecord, error)
	ListResumable(ctx context.Context, staleAfter time.Duration, limit int) ([]GenerationRecord, error)
}
