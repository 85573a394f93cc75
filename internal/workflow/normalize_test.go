package workflow

import (
	"reflect"
	"sort"
	"testing"

	"studio/internal/domain"
)

func fullInputBag() map[string]any {
	return map[string]any{
		"gender":           "female",
		"pose":             "standing",
		"ageRange":         "25-34",
		"ethnicity":        "any",
		"modelImage":       "model.png",
		"garmentImage":     "garment.png",
		"garmentType":      "top",
		"inputImage":       "in.png",
		"targetColor":      "#ff0000",
		"preserveTexture":  true,
		"upscaleLevel":     3,
		"enhanceFace":      true,
		"graphicImage":     "logo.png",
		"placement":        "chest",
		"targetWidth":      1024,
		"targetHeight":     768,
		"maintainAspect":   true,
		"backgroundPrompt": "a beach at sunset",
		"backgroundImage":  "bg.png",
		"productImage":     "product.png",
		"scene":            "kitchen",
		"lighting":         "soft",
		"motionPrompt":     "slow pan",
		"durationSeconds":  4,
		"headline":         "Summer Sale",
		"style":            "minimal",
	}
}

func TestNormalizeCoversEveryWorkflowType(t *testing.T) {
	expected := map[domain.WorkflowType][]string{
		domain.WorkflowModel:           {"age_range", "ethnicity", "gender", "pose"},
		domain.WorkflowTryOn:           {"garment_image", "garment_type", "model_image"},
		domain.WorkflowColorChange:     {"input_image", "preserve_texture", "target_color"},
		domain.WorkflowUpscale:         {"enhance_face", "input_image", "upscale_level"},
		domain.WorkflowGraphicTransfer: {"graphic_image", "input_image", "placement"},
		domain.WorkflowResize:          {"input_image", "maintain_aspect", "target_height", "target_width"},
		domain.WorkflowBackground:      {"background_image", "background_prompt", "input_image"},
		domain.WorkflowLifestyle:       {"lighting", "product_image", "scene"},
		domain.WorkflowVideo:           {"duration_seconds", "input_image", "motion_prompt"},
		domain.WorkflowPoster:          {"headline", "product_image", "style"},
	}

	for _, workflowType := range domain.WorkflowTypes {
		want, ok := expected[workflowType]
		if !ok {
			t.Fatalf("no expectation for workflow type %q", workflowType)
		}
		out := Normalize(workflowType, fullInputBag())
		if out == nil {
			t.Fatalf("%s: expected non-nil output", workflowType)
		}
		got := make([]string, 0, len(out))
		for k := range out {
			got = append(got, k)
		}
		sort.Strings(got)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: field names = %v, want %v", workflowType, got, want)
		}
	}
}

func TestNormalizeRenamesValues(t *testing.T) {
	out := Normalize(domain.WorkflowUpscale, map[string]any{
		"inputImage":   "f.png",
		"upscaleLevel": 3,
		"enhanceFace":  false,
	})
	if out["input_image"] != "f.png" {
		t.Fatalf("input_image = %v", out["input_image"])
	}
	if out["upscale_level"] != 3 {
		t.Fatalf("upscale_level = %v", out["upscale_level"])
	}
	if out["enhance_face"] != false {
		t.Fatalf("enhance_face = %v", out["enhance_face"])
	}
}

func TestNormalizeMissingFieldsAreAbsent(t *testing.T) {
	out := Normalize(domain.WorkflowResize, map[string]any{"inputImage": "in.png"})
	if len(out) != 1 {
		t.Fatalf("expected a single field, got %v", out)
	}
	if _, present := out["target_width"]; present {
		t.Fatalf("target_width should be absent when the source field is missing")
	}
}

func TestNormalizeEmptyInputDoesNotPanic(t *testing.T) {
	for _, workflowType := range domain.WorkflowTypes {
		if out := Normalize(workflowType, nil); out == nil {
			t.Fatalf("%s: expected non-nil output for nil input", workflowType)
		}
	}
}

func TestNormalizeUnknownTypePassthrough(t *testing.T) {
	input := map[string]any{"anything": "goes", "nested": map[string]any{"x": 1}}
	out := Normalize(domain.WorkflowType("hologram"), input)
	if !reflect.DeepEqual(out, input) {
		t.Fatalf("unknown type should pass input through unchanged, got %v", out)
	}
}
