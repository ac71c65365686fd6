package llm

import "github.com/sevenweeks-07/vision-anchored-autograder/constants"

// BuildCorrectionsJSONSchema returns the JSON-Schema the normalized judge
// payload must satisfy, as a generic map.
func BuildCorrectionsJSONSchema() map[string]any {
	point := map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "integer"},
		"minItems": 2,
		"maxItems": 2,
	}
	correction := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{"type": "integer"},
			"status": map[string]any{
				"type": "string",
				"enum": []string{string(constants.StatusCorrect), string(constants.StatusIncorrect), string(constants.StatusIgnore)},
			},
			"original_text":               map[string]any{"type": "string"},
			"mathematical_interpretation": map[string]any{"type": "string"},
			"corrected_text":              map[string]any{"type": "string"},
			"reasoning":                   map[string]any{"type": "string"},
			"marking": map[string]any{
				"type": "string",
				"enum": []string{string(constants.MarkingRectangle), string(constants.MarkingCircle)},
			},
			"bbox": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"top_left":     point,
					"bottom_right": point,
				},
				"required": []string{"top_left", "bottom_right"},
			},
			"scratched": map[string]any{"type": "boolean"},
		},
		"required": []string{"status"},
	}
	assessment := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"final_answer_status":   map[string]any{"type": "string", "minLength": 1},
			"key_strengths":         map[string]any{"type": "string", "minLength": 1},
			"areas_for_improvement": map[string]any{"type": "string", "minLength": 1},
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"corrections":        map[string]any{"type": "array", "items": correction},
			"overall_assessment": assessment,
		},
		"required": []string{"corrections", "overall_assessment"},
	}
}
