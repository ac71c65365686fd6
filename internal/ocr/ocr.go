// Package ocr turns a page image into word-level boxes.
//
// Engines live in subpackages and register themselves by name from init, so a
// binary only links the engines it blank-imports:
//
//	import _ "github.com/sevenweeks-07/vision-anchored-autograder/internal/ocr/tesseract"
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

// Detector returns the words found on an image, in reading order as reported by the engine.
type Detector interface {
	Name() string
	Detect(ctx context.Context, imagePath string) ([]entity.WordBox, error)
}

// Config selects and tunes an engine.
type Config struct {
	Engine string // tesseract | documentai | json; empty means tesseract

	Language    string // tesseract language, default "eng"
	TessdataDir string
	Preprocess  bool // grayscale + contrast + sharpen before tesseract

	DocumentAIConfig string // YAML file with project_id, location, processor_id

	WordsFile string // json engine: pre-computed word boxes

	HeicConverter    string // heif-convert | magick | sips
	ArtifactCacheDir string
}

const (
	EngineTesseract  = "tesseract"
	EngineDocumentAI = "documentai"
	EngineJSON       = "json"
)

// Factory builds a Detector from config.
type Factory func(cfg Config, logger *slog.Logger) (Detector, error)

var ErrUnknownEngine = errors.New("unknown ocr engine")

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes an engine available to NewDetector. Registering a name twice replaces the factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = f
}

// Engines lists the registered engine names.
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewDetector builds the engine named by cfg.Engine.
func NewDetector(cfg Config, logger *slog.Logger) (Detector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	name := strings.ToLower(strings.TrimSpace(cfg.Engine))
	if name == "" {
		name = EngineTesseract
	}
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)", ErrUnknownEngine, name, strings.Join(Engines(), ", "))
	}
	d, err := f(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init %s engine: %w", name, err)
	}
	logger.Debug("ocr.engine.ready", "engine", d.Name())
	return d, nil
}
