package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WorkflowType enumerates supported visual-generation workflow categories.
type WorkflowType string

const (
	WorkflowModel           WorkflowType = "model"
	WorkflowTryOn           WorkflowType = "tryon"
	WorkflowColorChange     WorkflowType = "color_change"
	WorkflowUpscale         WorkflowType = "upscale"
	WorkflowGraphicTransfer WorkflowType = "graphic_transfer"
	WorkflowResize          WorkflowType = "resize"
	WorkflowBackground      WorkflowType = "background"
	WorkflowLifestyle       WorkflowType = "lifestyle"
	WorkflowVideo           WorkflowType = "video"
	WorkflowPoster          WorkflowType = "poster"
)

// WorkflowTypes lists every known workflow type in a stable order.
var WorkflowTypes = []WorkflowType{
	WorkflowModel,
	WorkflowTryOn,
	WorkflowColorChange,
	WorkflowUpscale,
	WorkflowGraphicTransfer,
	WorkflowResize,
	WorkflowBackground,
	WorkflowLifestyle,
	WorkflowVideo,
	WorkflowPoster,
}

// GenerationStatus enumerates generation record lifecycle states. A record
// starts at processing and moves to exactly one terminal state, never back.
type GenerationStatus string

const (
	GenerationProcessing GenerationStatus = "processing"
	GenerationCompleted  GenerationStatus = "completed"
	GenerationFailed     GenerationStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s GenerationStatus) Terminal() bool {
	return s == GenerationCompleted || s == GenerationFailed
}

// GenerationRecord tracks the lifecycle of one submitted generation job.
// ExternalJobID is nil exactly while no remote submission has succeeded.
type GenerationRecord struct {
	ID            string
	UserID        string
	WorkflowType  WorkflowType
	Method        string
	InputData     map[string]any
	ExternalJobID *string
	Status        GenerationStatus
	OutputURLs    []string
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

var workflowLabels = map[WorkflowType]string{
	WorkflowTryOn: "Virtual Try-On",
}

// Label returns a human-readable name for the workflow type, e.g.
// "color_change" becomes "Color Change". A Caser is stateful, so one is
// built per call rather than shared.
func (t WorkflowType) Label() string {
	if label, ok := workflowLabels[t]; ok {
		return label
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "_", " "))
}
