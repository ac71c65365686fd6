package processor

import (
	"context"
	"image"
	"log/slog"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/common"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/render"
)

// RenderStage draws the marks and footer and saves overlay + composite.
type RenderStage struct {
	Renderer *render.Renderer
	FontSize int
	Logger   *slog.Logger
}

func NewRenderStage(r *render.Renderer, fontSize int, logger *slog.Logger) *RenderStage {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = render.NewRenderer(nil, logger)
	}
	if fontSize <= 0 {
		fontSize = 32
	}
	return &RenderStage{Renderer: r, FontSize: fontSize, Logger: logger}
}

// Run renders res over src; fontSize overrides the stage default when positive.
func (s *RenderStage) Run(ctx context.Context, src image.Image, res entity.JudgeResult, fontSize int, outPath string) (render.Report, error) {
	if fontSize <= 0 {
		fontSize = s.FontSize
	}
	rep, err := s.Renderer.Render(src, res.Corrections, res.OverallAssessment, fontSize, outPath)
	if err != nil {
		common.LoggerFromContext(ctx, s.Logger).Error("pipeline.render.failed", "output", outPath, "error", err)
		return rep, common.NewAppError(common.CodeRender, "render overlay", err)
	}
	return rep, nil
}
