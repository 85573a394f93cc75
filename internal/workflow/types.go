package workflow

import "studio/internal/domain"

// Settings carries caller preferences for a submission. All fields are
// optional; zero values fall back to the service defaults.
type Settings struct {
	Method       string `json:"method"`
	OutputCount  int    `json:"output_count"`
	OutputFormat string `json:"output_format"`
}

// Request is the transient submission bundle supplied by callers. InputData
// keeps the workflow-specific shape; the normalizer translates it to backend
// field names at submission time.
type Request struct {
	WorkflowType domain.WorkflowType `json:"workflow_type"`
	UserID       string              `json:"user_id"`
	InputData    map[string]any      `json:"input_data"`
	Settings     Settings            `json:"settings"`
}

// SubmitResult acknowledges acceptance of a workflow. The job is still
// running when it is returned.
type SubmitResult struct {
	GenerationID  string                  `json:"generation_id"`
	ExternalJobID string                  `json:"external_job_id"`
	Status        domain.GenerationStatus `json:"status"`
}

// Result is the terminal outcome of a polled generation. Exactly one of
// ImageURLs and Error is populated.
type Result struct {
	GenerationID string                  `json:"generation_id"`
	Status       domain.GenerationStatus `json:"status"`
	ImageURLs    []string                `json:"image_urls,omitempty"`
	Error        string                  `json:"error,omitempty"`
}
