package workflow

import "studio/internal/domain"

// fieldMappings translates caller-side input fields into the field names the
// compute backend expects, keyed by workflow type. Each entry maps a backend
// field to its source field; normalization is a pick-and-rename, never a
// computation.
var fieldMappings = map[domain.WorkflowType]map[string]string{
	domain.WorkflowModel: {
		"gender":    "gender",
		"pose":      "pose",
		"age_range": "ageRange",
		"ethnicity": "ethnicity",
	},
	domain.WorkflowTryOn: {
		"model_image":   "modelImage",
		"garment_image": "garmentImage",
		"garment_type":  "garmentType",
	},
	domain.WorkflowColorChange: {
		"input_image":      "inputImage",
		"target_color":     "targetColor",
		"preserve_texture": "preserveTexture",
	},
	domain.WorkflowUpscale: {
		"input_image":   "inputImage",
		"upscale_level": "upscaleLevel",
		"enhance_face":  "enhanceFace",
	},
	domain.WorkflowGraphicTransfer: {
		"input_image":   "inputImage",
		"graphic_image": "graphicImage",
		"placement":     "placement",
	},
	domain.WorkflowResize: {
		"input_image":     "inputImage",
		"target_width":    "targetWidth",
		"target_height":   "targetHeight",
		"maintain_aspect": "maintainAspect",
	},
	domain.WorkflowBackground: {
		"input_image":       "inputImage",
		"background_prompt": "backgroundPrompt",
		"background_image":  "backgroundImage",
	},
	domain.WorkflowLifestyle: {
		"product_image": "productImage",
		"scene":         "scene",
		"lighting":      "lighting",
	},
	domain.WorkflowVideo: {
		"input_image":      "inputImage",
		"motion_prompt":    "motionPrompt",
		"duration_seconds": "durationSeconds",
	},
	domain.WorkflowPoster: {
		"product_image": "productImage",
		"headline":      "headline",
		"style":         "style",
	},
}

// Normalize maps workflow-specific input into backend field names. Unknown
// workflow types pass through unchanged so that new types degrade gracefully
// instead of blocking submission. Fields missing from the input are simply
// absent from the output; required-field validation is the caller's job.
func Normalize(workflowType domain.WorkflowType, input map[string]any) map[string]any {
	mapping, ok := fieldMappings[workflowType]
	if !ok {
		return input
	}
	out := make(map[string]any, len(mapping))
	for target, source := range mapping {
		if v, present := input[source]; present {
			out[target] = v
		}
	}
	return out
}
