package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
)

func TestParseJudgeResponse(t *testing.T) {
	text := "```json\n" + `{
  "corrections": [
    {"id": 0, "status": "correct", "original_text": "2x + 3 = 7",
     "bbox": {"top_left": [40, 40], "bottom_right": [230, 80]}},
    {"id": "1", "status": "Incorrect", "original_text": "x = 3", "corrected_text": "x = 2",
     "marking": "circle", "reasoning": "7 - 3 = 4", "scratched": "false",
     "bbox": {"top_left": [40.4, 300], "bottom_right": [140, 340.6]}},
    {"status": "ignore", "bbox": [1, 2, 3, 4]}
  ],
  "overall_assessment": {
    "final_answer_status": "Incorrect",
    "key_strengths": ["clear layout", "correct first step"],
    "areas_for_improvement": "Not provided"
  }
}` + "\n```"

	res, normalized, err := ParseJudgeResponse(text, nil)
	if err != nil {
		t.Fatalf("ParseJudgeResponse() error = %v", err)
	}
	if len(normalized) == 0 {
		t.Fatalf("expected normalized json")
	}
	if len(res.Corrections) != 3 {
		t.Fatalf("expected 3 corrections, got %d", len(res.Corrections))
	}

	c1 := res.Corrections[1]
	if c1.ID != 1 || c1.Status != constants.StatusIncorrect || c1.Marking != constants.MarkingCircle {
		t.Errorf("unexpected correction 1: %+v", c1)
	}
	if c1.BBox == nil || c1.BBox.TopLeft != [2]int{40, 300} || c1.BBox.BottomRight != [2]int{140, 341} {
		t.Errorf("unexpected bbox: %+v", c1.BBox)
	}
	if !c1.NeedsLabel() {
		t.Errorf("expected correction 1 to need a label")
	}

	c2 := res.Corrections[2]
	if c2.ID != 2 || c2.BBox == nil || c2.BBox.BottomRight != [2]int{3, 4} {
		t.Errorf("unexpected correction 2: %+v", c2)
	}
	if c2.Marking != constants.MarkingRectangle {
		t.Errorf("expected default rectangle marking, got %q", c2.Marking)
	}

	a := res.OverallAssessment
	if a.FinalAnswerStatus != constants.FinalIncorrect {
		t.Errorf("final status = %q", a.FinalAnswerStatus)
	}
	if a.KeyStrengths == nil || *a.KeyStrengths != "clear layout; correct first step" {
		t.Errorf("key strengths = %v", a.KeyStrengths)
	}
	if a.AreasForImprovement != nil {
		t.Errorf("expected placeholder improvements to be absent, got %q", *a.AreasForImprovement)
	}
}

func TestParseJudgeResponseMissingCorrections(t *testing.T) {
	_, _, err := ParseJudgeResponse(`{"overall_assessment": {}}`, nil)
	if !errors.Is(err, ErrMissingCorrections) {
		t.Fatalf("expected ErrMissingCorrections, got %v", err)
	}
}

func TestParseJudgeResponseNoJSON(t *testing.T) {
	_, _, err := ParseJudgeResponse("I cannot grade this image.", nil)
	if !errors.Is(err, ErrNoJSON) {
		t.Fatalf("expected ErrNoJSON, got %v", err)
	}
}

func TestNormalizeDefaultsAssessment(t *testing.T) {
	out, _, err := NormalizeJudgeJSON([]byte(`{"corrections": []}`), nil)
	if err != nil {
		t.Fatalf("NormalizeJudgeJSON() error = %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	a, ok := m["overall_assessment"].(map[string]any)
	if !ok || len(a) != 0 {
		t.Fatalf("expected empty overall_assessment, got %#v", m["overall_assessment"])
	}
}

func TestNormalizeDropsInvalidBBox(t *testing.T) {
	out, dropped, err := NormalizeJudgeJSON([]byte(`{"corrections": [{"status": "incorrect", "bbox": {"top_left": [1]}}]}`), nil)
	if err != nil {
		t.Fatalf("NormalizeJudgeJSON() error = %v", err)
	}
	res, err := DecodeJudgeResult(out, nil)
	if err != nil {
		t.Fatalf("DecodeJudgeResult() error = %v", err)
	}
	if res.Corrections[0].BBox != nil {
		t.Fatalf("expected bbox to be dropped")
	}
	if len(dropped) == 0 {
		t.Fatalf("expected dropped entries to be reported")
	}
}

func TestSchemaRejectsBadStatus(t *testing.T) {
	err := ValidateJSONAgainstSchema(BuildCorrectionsJSONSchema(),
		[]byte(`{"corrections": [{"status": "maybe"}], "overall_assessment": {}}`))
	if err == nil {
		t.Fatalf("expected schema error")
	}
}
