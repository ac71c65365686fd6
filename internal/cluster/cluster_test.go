package cluster

import (
	"errors"
	"testing"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

func word(text string, x1, y1, x2, y2 int, conf float64) entity.WordBox {
	return entity.WordBox{Text: text, Confidence: conf, BBox: entity.NewBBox(x1, y1, x2, y2)}
}

func TestClusterTwoBoxesOnOneLine(t *testing.T) {
	boxes := []entity.WordBox{
		word("A", 10, 10, 50, 30, 0.9),
		word("B", 55, 12, 90, 32, 0.8),
	}
	got := Cluster(boxes, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("expected 1 region, got %d", len(got))
	}
	r := got[0]
	if r.BBox != entity.NewBBox(10, 10, 90, 32) {
		t.Fatalf("unexpected bbox: %+v", r.BBox)
	}
	if r.Text != "A B" {
		t.Fatalf("unexpected text: %q", r.Text)
	}
	if r.SourceCount != 2 || r.ID != 0 {
		t.Fatalf("unexpected region meta: %+v", r)
	}
	if r.Confidence != 0.85 {
		t.Fatalf("unexpected confidence: %v", r.Confidence)
	}
}

func TestClusterEmpty(t *testing.T) {
	got := Cluster(nil, DefaultConfig())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestClusterSingleBox(t *testing.T) {
	got := Cluster([]entity.WordBox{word("x=2", 5, 5, 40, 25, 0.7)}, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("expected 1 region, got %d", len(got))
	}
	want := entity.Region{ID: 0, Text: "x=2", Confidence: 0.7, BBox: entity.NewBBox(5, 5, 40, 25), SourceCount: 1}
	if got[0] != want {
		t.Fatalf("got %+v, want %+v", got[0], want)
	}
}

func TestClusterTransitiveChain(t *testing.T) {
	// C only touches B; B only touches A. All three end up together.
	boxes := []entity.WordBox{
		word("C", 240, 10, 280, 30, 1),
		word("A", 0, 10, 40, 30, 1),
		word("B", 120, 10, 160, 30, 1),
	}
	got := Cluster(boxes, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("expected 1 region, got %d: %+v", len(got), got)
	}
	if got[0].Text != "A B C" {
		t.Fatalf("expected reading order text, got %q", got[0].Text)
	}
}

func TestClusterSeedOrderAndDenseIDs(t *testing.T) {
	boxes := []entity.WordBox{
		word("bottom", 10, 500, 80, 530, 1),
		word("top", 10, 10, 60, 40, 1),
		word("right", 800, 10, 860, 40, 1),
	}
	got := Cluster(boxes, DefaultConfig())
	if len(got) != 3 {
		t.Fatalf("expected 3 regions, got %d", len(got))
	}
	for i, want := range []string{"bottom", "top", "right"} {
		if got[i].ID != i || got[i].Text != want {
			t.Errorf("region %d = (%d, %q), want (%d, %q)", i, got[i].ID, got[i].Text, i, want)
		}
	}
}

func TestClusterVerticalStack(t *testing.T) {
	boxes := []entity.WordBox{
		word("second", 100, 60, 180, 90, 1),
		word("first", 100, 10, 170, 40, 1),
	}
	got := Cluster(boxes, DefaultConfig())
	if len(got) != 1 {
		t.Fatalf("expected vertical merge, got %d regions", len(got))
	}
	if got[0].Text != "first second" {
		t.Fatalf("unexpected text %q", got[0].Text)
	}
}

func sampleSheet() []entity.WordBox {
	return []entity.WordBox{
		word("2x", 40, 40, 90, 80, 0.9),
		word("+", 100, 42, 120, 78, 0.8),
		word("3", 130, 40, 160, 80, 0.95),
		word("=", 170, 45, 190, 75, 0.7),
		word("7", 200, 40, 230, 80, 0.9),
		word("x", 40, 300, 70, 340, 0.9),
		word("=", 80, 305, 100, 335, 0.6),
		word("2", 110, 300, 140, 340, 0.8),
		word("Answer:", 700, 600, 820, 640, 0.99),
		word("2", 830, 600, 850, 640, 0.99),
	}
}

func TestClusterPartition(t *testing.T) {
	boxes := sampleSheet()
	regions := Cluster(boxes, DefaultConfig())

	total := 0
	for _, r := range regions {
		total += r.SourceCount
	}
	if total != len(boxes) {
		t.Fatalf("source counts sum to %d, want %d", total, len(boxes))
	}
	if len(regions) > len(boxes) {
		t.Fatalf("more regions than boxes")
	}

	// Every box must be inside exactly one region envelope that claims it.
	for _, b := range boxes {
		containing := 0
		for _, r := range regions {
			if r.BBox.Contains(b.BBox) {
				containing++
			}
		}
		if containing == 0 {
			t.Errorf("box %q at %+v is not contained by any region", b.Text, b.BBox)
		}
	}
}

func TestClusterIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	first := Cluster(sampleSheet(), cfg)

	again := make([]entity.WordBox, 0, len(first))
	for _, r := range first {
		again = append(again, entity.WordBox{Text: r.Text, Confidence: r.Confidence, BBox: r.BBox})
	}
	second := Cluster(again, cfg)

	if len(second) != len(first) {
		t.Fatalf("re-clustering changed region count: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i].BBox != second[i].BBox || first[i].Text != second[i].Text {
			t.Errorf("region %d changed: %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestClusterMonotonicInThresholds(t *testing.T) {
	boxes := sampleSheet()
	prev := len(boxes) + 1
	for _, scale := range []int{0, 1, 2, 4, 8, 16} {
		cfg := Config{
			MaxHorizontalGap:             10 * scale,
			MaxVerticalGap:               10 * scale,
			HorizontalAlignmentTolerance: 5 * scale,
			VerticalAlignmentTolerance:   5 * scale,
		}
		n := len(Cluster(boxes, cfg))
		if n > prev {
			t.Fatalf("scale %d produced %d regions, more than %d at a smaller scale", scale, n, prev)
		}
		prev = n
	}
}

func TestClusterDoesNotMutateInput(t *testing.T) {
	boxes := sampleSheet()
	before := make([]entity.WordBox, len(boxes))
	copy(before, boxes)
	_ = Cluster(boxes, DefaultConfig())
	for i := range boxes {
		if boxes[i] != before[i] {
			t.Fatalf("input box %d mutated", i)
		}
	}
}

func TestMergeEmptyGroup(t *testing.T) {
	_, err := Merge(nil)
	if !errors.Is(err, ErrEmptyGroup) {
		t.Fatalf("expected ErrEmptyGroup, got %v", err)
	}
}

func TestMergeRoundsConfidence(t *testing.T) {
	r, err := Merge([]entity.WordBox{
		word("a", 0, 0, 10, 10, 0.1),
		word("b", 20, 0, 30, 10, 0.2),
		word("c", 40, 0, 50, 10, 0.2),
	})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if r.Confidence != 0.167 {
		t.Fatalf("confidence = %v, want 0.167", r.Confidence)
	}
}
