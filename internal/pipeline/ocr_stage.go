package processor

import (
	"context"
	"log/slog"
	"time"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/cluster"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/common"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/ocr"
)

// ThresholdsFunc picks clustering thresholds for an image size.
type ThresholdsFunc func(width, height int) cluster.Config

// OCRStage detects words and groups them into regions.
type OCRStage struct {
	Detector   ocr.Detector
	Thresholds ThresholdsFunc
	Logger     *slog.Logger
}

func NewOCRStage(d ocr.Detector, thresholds ThresholdsFunc, logger *slog.Logger) *OCRStage {
	if logger == nil {
		logger = slog.Default()
	}
	if thresholds == nil {
		thresholds = cluster.AdaptiveConfig
	}
	return &OCRStage{Detector: d, Thresholds: thresholds, Logger: logger}
}

// Run returns the regions for imagePath, whose pixel size is width x height.
func (s *OCRStage) Run(ctx context.Context, imagePath string, width, height int) ([]entity.Region, error) {
	if s.Detector == nil {
		return nil, common.NewAppError(common.CodeOCRFailed, "no ocr engine configured", common.ErrInvalidInput)
	}
	logger := common.LoggerFromContext(ctx, s.Logger)
	start := time.Now()

	words, err := s.Detector.Detect(ctx, imagePath)
	if err != nil {
		logger.Error("pipeline.ocr.failed", "engine", s.Detector.Name(), "error", err)
		return nil, common.NewAppError(common.CodeOCRFailed, s.Detector.Name()+" detection failed", err)
	}

	cfg := s.Thresholds(width, height)
	regions := cluster.Cluster(words, cfg)
	logger.Info("pipeline.ocr.ok",
		"engine", s.Detector.Name(),
		"words", len(words),
		"regions", len(regions),
		"max_horizontal_gap", cfg.MaxHorizontalGap,
		"max_vertical_gap", cfg.MaxVerticalGap,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return regions, nil
}
