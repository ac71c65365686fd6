package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/common"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/llm"
)

// DefaultRunDir is {base}/{YYYYMMDD_HHMMSS} for the given time.
func DefaultRunDir(base string, now time.Time) string {
	if base == "" {
		base = constants.DefaultOutputsRoot
	}
	return filepath.Join(base, now.Format(constants.RunDirLayout))
}

// Store reads and writes the flat files of one run directory.
type Store struct {
	dir string
}

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, common.NewAppError(common.CodeArtifactIO, "create run dir "+dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// Path joins name onto the run directory.
func (s *Store) Path(name string) string { return filepath.Join(s.dir, name) }

// WriteJSON writes v indented with two spaces, leaving non-ASCII text unescaped.
func (s *Store) WriteJSON(name string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", common.NewAppError(common.CodeArtifactIO, "encode "+name, err)
	}
	return s.write(name, buf.Bytes())
}

func (s *Store) WriteText(name, text string) (string, error) {
	return s.write(name, []byte(text))
}

func (s *Store) write(name string, data []byte) (string, error) {
	path := s.Path(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", common.NewAppError(common.CodeArtifactIO, "write "+name, err)
	}
	return path, nil
}

// LoadRegions reads an ocr_data.json style file.
func LoadRegions(path string) ([]entity.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAppError(common.CodeArtifactIO, "read regions", err)
	}
	var regions []entity.Region
	if err := json.Unmarshal(data, &regions); err != nil {
		return nil, common.NewAppError(common.CodeArtifactIO, fmt.Sprintf("decode regions %s", path), err)
	}
	if regions == nil {
		regions = []entity.Region{}
	}
	return regions, nil
}

// LoadJudgeResult reads a corrections.json style file and normalizes it like a fresh judge reply.
func LoadJudgeResult(path string, logger *slog.Logger) (entity.JudgeResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.JudgeResult{}, common.NewAppError(common.CodeArtifactIO, "read corrections", err)
	}
	res, err := llm.DecodeJudgeResult(data, logger)
	if err != nil {
		return entity.JudgeResult{}, common.NewAppError(common.CodeArtifactIO, fmt.Sprintf("decode corrections %s", path), err)
	}
	return res, nil
}
