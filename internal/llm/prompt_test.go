package llm

import (
	"strings"
	"testing"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

func TestBuildGradingPrompt(t *testing.T) {
	regions := []entity.Region{
		{ID: 0, Text: "x = 2", BBox: entity.NewBBox(40, 300, 140, 340)},
		{ID: 1, Text: "2x + 3 = 7", BBox: entity.NewBBox(40, 40, 230, 80)},
	}
	got := BuildGradingPrompt(regions, 1200, 900)

	if !strings.HasPrefix(got, "You are an experienced mathematics and english teacher") {
		t.Fatalf("unexpected preamble: %q", got[:60])
	}
	if !strings.Contains(got, "Image size: 1200x900 pixels\n\nDETECTED TEXT REGIONS:\n") {
		t.Fatalf("missing image size header")
	}

	first := "Region 1:\nPosition: [40,40] to [230,80]\nStudent wrote: \"2x + 3 = 7\"\n---\n"
	second := "Region 0:\nPosition: [40,300] to [140,340]\nStudent wrote: \"x = 2\"\n---\n"
	i, j := strings.Index(got, first), strings.Index(got, second)
	if i < 0 || j < 0 {
		t.Fatalf("region blocks not found in prompt:\n%s", got)
	}
	if i > j {
		t.Fatalf("regions not in reading order")
	}
	if !strings.HasSuffix(got, "final_answer_status}.") {
		t.Fatalf("unexpected trailer: %q", got[len(got)-40:])
	}
}

func TestBuildGradingPromptNoRegions(t *testing.T) {
	got := BuildGradingPrompt(nil, 10, 10)
	if strings.Contains(got, "Region ") {
		t.Fatalf("expected no region blocks, got %q", got)
	}
}
