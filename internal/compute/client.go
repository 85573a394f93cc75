package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// JobStatusValue enumerates the lifecycle states reported by the compute
// backend for a submitted job.
type JobStatusValue string

const (
	StatusInQueue    JobStatusValue = "IN_QUEUE"
	StatusInProgress JobStatusValue = "IN_PROGRESS"
	StatusCompleted  JobStatusValue = "COMPLETED"
	StatusFailed     JobStatusValue = "FAILED"
)

// JobPayload is the request body for submitting a job.
type JobPayload struct {
	WorkflowType string         `json:"workflow_type"`
	Input        map[string]any `json:"input"`
	NumOutputs   int            `json:"num_outputs"`
	OutputFormat string         `json:"output_format"`
}

// JobOutput carries the result locations of a finished job.
type JobOutput struct {
	Images []string `json:"images"`
}

// Job is the backend's view of a submitted job.
type Job struct {
	ID     string         `json:"id"`
	Status JobStatusValue `json:"status"`
	Output *JobOutput     `json:"output,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client issues authenticated requests to the compute backend. It carries no
// retry logic; a failed call is surfaced to the caller as a single failure.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient constructs a compute backend client. An empty API key is not
// rejected here; the backend answers unauthenticated requests with an error
// that surfaces through the normal failure path.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		token:      strings.TrimSpace(opts.APIKey),
	}
}

// SubmitJob posts a job payload to the backend run endpoint and returns the
// backend's acknowledgement, which carries the assigned job id.
func (c *Client) SubmitJob(ctx context.Context, payload JobPayload) (*Job, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("compute: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/run", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("compute: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.do(req)
}

// JobStatus fetches the current state of a previously submitted job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("compute: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Job, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("compute: %s", resp.Status)
	}

	var job Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("compute: decode response: %w", err)
	}
	return &job, nil
}

// Backend abstracts the compute API for callers that substitute fakes.
type Backend interface {
	SubmitJob(ctx context.Context, payload JobPayload) (*Job, error)
	JobStatus(ctx context.Context, jobID string) (*Job, error)
}

var _ Backend = (*Client)(nil)
