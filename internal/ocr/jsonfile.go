package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

// DefaultConfidence is used for words whose engine reported none.
const DefaultConfidence = 0.5

func init() {
	Register(EngineJSON, func(cfg Config, logger *slog.Logger) (Detector, error) {
		return NewFileDetector(cfg.WordsFile, logger)
	})
}

// FileDetector replays word boxes saved earlier (or produced by another tool).
type FileDetector struct {
	path   string
	logger *slog.Logger
}

func NewFileDetector(path string, logger *slog.Logger) (*FileDetector, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json engine needs a words file")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileDetector{path: path, logger: logger}, nil
}

func (d *FileDetector) Name() string { return EngineJSON }

// Detect ignores the image and returns the words stored in the file.
func (d *FileDetector) Detect(ctx context.Context, imagePath string) ([]entity.WordBox, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words, err := LoadWordBoxes(d.path)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("ocr.json.loaded", "path", d.path, "image", imagePath, "words", len(words))
	return words, nil
}

type wordRecord struct {
	Text       string       `json:"text"`
	Confidence *float64     `json:"confidence"`
	BBox       *entity.BBox `json:"bbox"`
}

// LoadWordBoxes reads a JSON array of {text, confidence, bbox} records.
// Records with blank text or no bbox are dropped; a missing confidence becomes DefaultConfidence.
func LoadWordBoxes(path string) ([]entity.WordBox, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read words file: %w", err)
	}
	var recs []wordRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode words file %s: %w", path, err)
	}
	words := make([]entity.WordBox, 0, len(recs))
	for _, r := range recs {
		text := strings.TrimSpace(r.Text)
		if text == "" || r.BBox == nil {
			continue
		}
		conf := DefaultConfidence
		if r.Confidence != nil {
			conf = *r.Confidence
		}
		words = append(words, entity.WordBox{Text: text, Confidence: conf, BBox: *r.BBox})
	}
	return words, nil
}
