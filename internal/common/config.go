package common

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/cluster"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/llm/openai"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/ocr"
)

// Config holds all application configuration
type Config struct {
	OCR      ocr.Config
	LLM      openai.Config
	Cluster  ClusterConfig
	Render   RenderConfig
	Output   OutputConfig
	LogLevel slog.Level
}

// ClusterConfig controls how word boxes are grouped into regions.
type ClusterConfig struct {
	Adaptive  bool           // scale thresholds with image size
	Overrides cluster.Config // positive fields replace the computed thresholds
}

// RenderConfig holds overlay drawing settings.
type RenderConfig struct {
	FontSize  int
	FontPaths []string // tried before the built-in system font list
}

// OutputConfig holds where run directories are created.
type OutputConfig struct {
	BaseDir string
}

// LoadConfig reads configuration from the environment, after loading a .env file when one exists.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		OCR: ocr.Config{
			Engine:           getEnv("OCR_ENGINE", ocr.EngineTesseract),
			Language:         getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			Preprocess:       getEnvAsBool("OCR_PREPROCESS", false),
			DocumentAIConfig: getEnv("DOCUMENTAI_CONFIG", "documentai.yaml"),
			WordsFile:        getEnv("OCR_WORDS_FILE", ""),
			HeicConverter:    getEnv("HEIC_CONVERTER", "magick"),
			ArtifactCacheDir: getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
		},
		LLM: openai.Config{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			BaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:           getEnv("OPENAI_MODEL", "o3"),
			Temperature:     getEnvAsFloat32("OPENAI_TEMPERATURE", 0.2),
			MaxOutputTokens: getEnvAsInt("OPENAI_MAX_OUTPUT_TOKENS", 4096),
			Timeout:         getEnvAsDuration("OPENAI_TIMEOUT", 2*time.Minute),
		},
		Cluster: ClusterConfig{
			Adaptive: getEnvAsBool("CLUSTER_ADAPTIVE", true),
			Overrides: cluster.Config{
				MaxHorizontalGap:             getEnvAsInt("CLUSTER_MAX_HORIZONTAL_GAP", 0),
				MaxVerticalGap:               getEnvAsInt("CLUSTER_MAX_VERTICAL_GAP", 0),
				HorizontalAlignmentTolerance: getEnvAsInt("CLUSTER_HORIZONTAL_TOLERANCE", 0),
				VerticalAlignmentTolerance:   getEnvAsInt("CLUSTER_VERTICAL_TOLERANCE", 0),
			},
		},
		Render: RenderConfig{
			FontSize:  getEnvAsInt("RENDER_FONT_SIZE", 32),
			FontPaths: getEnvAsList("RENDER_FONT_PATHS"),
		},
		Output: OutputConfig{
			BaseDir: getEnv("OUTPUT_DIR", constants.DefaultOutputsRoot),
		},
		LogLevel: getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsList splits a path-list variable (":" on unix, ";" on windows).
func getEnvAsList(key string) []string {
	var out []string
	for _, p := range filepath.SplitList(os.Getenv(key)) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(value)); err == nil {
			return lvl
		}
	}
	return defaultValue
}

// ClusterFor returns the clustering thresholds for an image of the given size.
func (c *Config) ClusterFor(width, height int) cluster.Config {
	base := cluster.DefaultConfig()
	if c.Cluster.Adaptive {
		base = cluster.AdaptiveConfig(width, height)
	}
	return base.WithOverrides(c.Cluster.Overrides)
}

// Validate checks settings every command needs. The API key is checked
// separately by ValidateJudge since replay runs never call the model.
func (c *Config) Validate() error {
	if c.Render.FontSize <= 0 {
		return NewAppError(CodeConfig, "RENDER_FONT_SIZE must be positive", ErrInvalidInput)
	}
	if c.Output.BaseDir == "" {
		return NewAppError(CodeConfig, "OUTPUT_DIR is required", ErrInvalidInput)
	}
	switch strings.ToLower(c.OCR.Engine) {
	case ocr.EngineTesseract, ocr.EngineDocumentAI, ocr.EngineJSON:
	default:
		return NewAppError(CodeConfig, "OCR_ENGINE must be one of tesseract|documentai|json", ErrInvalidInput)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return NewAppError(CodeConfig, "OPENAI_TEMPERATURE must be within 0..2", ErrInvalidInput)
	}
	return nil
}

// ValidateJudge checks the settings needed to call the grading model.
func (c *Config) ValidateJudge() error {
	if c.LLM.APIKey == "" {
		return NewAppError(CodeConfig, "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.LLM.Model == "" {
		return NewAppError(CodeConfig, "OPENAI_MODEL is required", ErrInvalidInput)
	}
	return nil
}
