package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

type stubDetector struct{ name string }

func (s stubDetector) Name() string { return s.name }

func (s stubDetector) Detect(context.Context, string) ([]entity.WordBox, error) {
	return []entity.WordBox{{Text: "x", Confidence: 1, BBox: entity.NewBBox(0, 0, 1, 1)}}, nil
}

func TestNewDetectorUsesRegistry(t *testing.T) {
	Register("Stub", func(cfg Config, logger *slog.Logger) (Detector, error) {
		return stubDetector{name: "stub"}, nil
	})
	d, err := NewDetector(Config{Engine: " stub "}, nil)
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	if d.Name() != "stub" {
		t.Fatalf("unexpected detector %s", d.Name())
	}
}

func TestNewDetectorUnknownEngine(t *testing.T) {
	_, err := NewDetector(Config{Engine: "vision"}, nil)
	if !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("expected ErrUnknownEngine, got %v", err)
	}
}

func TestNewDetectorFactoryError(t *testing.T) {
	boom := errors.New("no credentials")
	Register("broken", func(Config, *slog.Logger) (Detector, error) { return nil, boom })
	if _, err := NewDetector(Config{Engine: "broken"}, nil); !errors.Is(err, boom) {
		t.Fatalf("expected factory error, got %v", err)
	}
}

func TestFileDetector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	body := `[
	  {"text": "2x", "confidence": 0.9, "bbox": {"top_left": [10, 10], "bottom_right": [40, 30]}},
	  {"text": "  ", "confidence": 0.9, "bbox": {"top_left": [50, 10], "bottom_right": [60, 30]}},
	  {"text": "=4", "bbox": {"top_left": [50, 10], "bottom_right": [80, 30]}},
	  {"text": "lost"}
	]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	d, err := NewDetector(Config{Engine: EngineJSON, WordsFile: path}, nil)
	if err != nil {
		t.Fatalf("NewDetector() error = %v", err)
	}
	words, err := d.Detect(context.Background(), "ignored.png")
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d: %+v", len(words), words)
	}
	if words[1].Confidence != DefaultConfidence {
		t.Fatalf("expected default confidence, got %v", words[1].Confidence)
	}
	if words[1].BBox != entity.NewBBox(50, 10, 80, 30) {
		t.Fatalf("unexpected bbox %+v", words[1].BBox)
	}
}

func TestFileDetectorNeedsPath(t *testing.T) {
	if _, err := NewDetector(Config{Engine: EngineJSON}, nil); err == nil {
		t.Fatal("expected error for missing words file")
	}
}

func TestLoadWordBoxesBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadWordBoxes(path); err == nil {
		t.Fatal("expected decode error")
	}
}
