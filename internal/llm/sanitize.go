package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

// NormalizeJudgeJSON reshapes a raw judge object into the corrections schema:
//   - requires "corrections" and defaults "overall_assessment" to {}
//   - canonicalizes status and marking values
//   - coerces bbox coordinates to integers and drops unusable boxes
//   - drops null, empty and "Not provided" optionals
//
// The returned slice names every key that was dropped or coerced.
func NormalizeJudgeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("normalize: decode: %w", err)
	}

	rawCorrections, ok := m["corrections"]
	if !ok {
		return nil, nil, ErrMissingCorrections
	}
	items, ok := rawCorrections.([]any)
	if !ok && rawCorrections != nil {
		return nil, nil, fmt.Errorf("%w: got %T", ErrMissingCorrections, rawCorrections)
	}

	dropped := make([]string, 0, 8)
	note := func(format string, args ...any) { dropped = append(dropped, fmt.Sprintf(format, args...)) }

	corrections := make([]any, 0, len(items))
	for i, it := range items {
		c, ok := it.(map[string]any)
		if !ok {
			note("corrections[%d](type)", i)
			continue
		}
		corrections = append(corrections, normalizeCorrection(i, c, note))
	}

	assessment := map[string]any{}
	switch a := m["overall_assessment"].(type) {
	case map[string]any:
		assessment = normalizeAssessment(a, note)
	case nil:
	default:
		note("overall_assessment(type)")
	}

	out, err := json.Marshal(map[string]any{
		"corrections":        corrections,
		"overall_assessment": assessment,
	})
	if err != nil {
		return nil, dropped, fmt.Errorf("normalize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.judge.normalize", "dropped", dropped)
	}
	return out, dropped, nil
}

func normalizeCorrection(idx int, c map[string]any, note func(string, ...any)) map[string]any {
	out := make(map[string]any, len(c))

	if id, ok := asInt(c["id"]); ok {
		out["id"] = id
	} else {
		out["id"] = idx
		note("corrections[%d].id(default)", idx)
	}

	rawStatus, _ := c["status"].(string)
	status, known := constants.CanonicalStatus(rawStatus)
	if !known {
		note("corrections[%d].status(%q->%s)", idx, rawStatus, status)
	}
	out["status"] = string(status)

	rawMarking, _ := c["marking"].(string)
	out["marking"] = string(constants.CanonicalMarking(rawMarking))

	for _, k := range []string{"original_text", "mathematical_interpretation", "corrected_text", "reasoning"} {
		switch v := c[k].(type) {
		case nil:
		case string:
			out[k] = strings.TrimSpace(v)
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			note("corrections[%d].%s(type)", idx, k)
		}
	}

	switch v := c["scratched"].(type) {
	case nil:
	case bool:
		out["scratched"] = v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			out["scratched"] = b
		} else {
			note("corrections[%d].scratched(type)", idx)
		}
	default:
		note("corrections[%d].scratched(type)", idx)
	}

	if raw, present := c["bbox"]; present {
		if bbox, ok := normalizeBBox(raw); ok {
			out["bbox"] = bbox
		} else {
			note("corrections[%d].bbox(invalid)", idx)
		}
	}
	return out
}

// normalizeBBox accepts {top_left:[x,y], bottom_right:[x,y]} or a flat [x1,y1,x2,y2].
func normalizeBBox(raw any) (map[string]any, bool) {
	var tl, br []int
	switch v := raw.(type) {
	case map[string]any:
		var ok1, ok2 bool
		tl, ok1 = asIntPair(v["top_left"])
		br, ok2 = asIntPair(v["bottom_right"])
		if !ok1 || !ok2 {
			return nil, false
		}
	case []any:
		if len(v) != 4 {
			return nil, false
		}
		flat := make([]int, 4)
		for i, n := range v {
			f, ok := asInt(n)
			if !ok {
				return nil, false
			}
			flat[i] = f
		}
		tl, br = flat[:2], flat[2:]
	default:
		return nil, false
	}
	return map[string]any{"top_left": tl, "bottom_right": br}, true
}

func asIntPair(v any) ([]int, bool) {
	arr, ok := v.([]any)
	if !ok || len(arr) != 2 {
		return nil, false
	}
	x, okx := asInt(arr[0])
	y, oky := asInt(arr[1])
	if !okx || !oky {
		return nil, false
	}
	return []int{x, y}, true
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(math.Round(t)), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	}
	return 0, false
}

func normalizeAssessment(a map[string]any, note func(string, ...any)) map[string]any {
	out := map[string]any{}
	if s, ok := a["final_answer_status"].(string); ok {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !isPlaceholder(s) {
			out["final_answer_status"] = s
		} else {
			note("overall_assessment.final_answer_status(empty)")
		}
	}
	for _, k := range []string{"key_strengths", "areas_for_improvement"} {
		var text string
		switch v := a[k].(type) {
		case nil:
			continue
		case string:
			text = strings.TrimSpace(v)
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				if s, ok := p.(string); ok && strings.TrimSpace(s) != "" {
					parts = append(parts, strings.TrimSpace(s))
				}
			}
			text = strings.Join(parts, "; ")
			note("overall_assessment.%s(list->string)", k)
		default:
			note("overall_assessment.%s(type)", k)
			continue
		}
		if text == "" || isPlaceholder(text) {
			note("overall_assessment.%s(empty)", k)
			continue
		}
		out[k] = text
	}
	for k := range a {
		switch k {
		case "final_answer_status", "key_strengths", "areas_for_improvement":
		default:
			note("overall_assessment.%s(unknown)", k)
		}
	}
	return out
}

func isPlaceholder(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), constants.NotProvided)
}

// ParseJudgeResponse turns the model's free-form text into a JudgeResult:
// extract the JSON object, normalize it, validate it against the corrections
// schema and decode it. The normalized JSON is returned alongside.
func ParseJudgeResponse(text string, logger *slog.Logger) (entity.JudgeResult, []byte, error) {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return entity.JudgeResult{}, nil, err
	}
	normalized, _, err := NormalizeJudgeJSON(raw, logger)
	if err != nil {
		return entity.JudgeResult{}, raw, err
	}
	if err := ValidateJSONAgainstSchema(BuildCorrectionsJSONSchema(), normalized); err != nil {
		return entity.JudgeResult{}, normalized, fmt.Errorf("schema validation failed: %w", err)
	}
	var out entity.JudgeResult
	if err := json.Unmarshal(normalized, &out); err != nil {
		return entity.JudgeResult{}, normalized, fmt.Errorf("unmarshal corrections: %w", err)
	}
	return out, normalized, nil
}

// DecodeJudgeResult normalizes and decodes an already-extracted corrections
// document, such as a corrections.json written by an earlier run.
func DecodeJudgeResult(raw []byte, logger *slog.Logger) (entity.JudgeResult, error) {
	normalized, _, err := NormalizeJudgeJSON(raw, logger)
	if err != nil {
		return entity.JudgeResult{}, err
	}
	var out entity.JudgeResult
	if err := json.Unmarshal(normalized, &out); err != nil {
		return entity.JudgeResult{}, fmt.Errorf("unmarshal corrections: %w", err)
	}
	return out, nil
}
