// Package processor runs one answer sheet through OCR, grading and rendering,
// leaving every intermediate artifact in a run directory.
package processor

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/common"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/export"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/llm"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/ocr"
)

// Options select the input image, the run directory and which stages to replay from disk.
type Options struct {
	ImagePath string
	OutDir    string

	UseOCRJSON     string // regions file used instead of OCR
	UseCorrections string // corrections file used instead of the judge
	SkipOCR        bool   // read {OutDir}/ocr_data.json
	SkipJudge      bool   // read {OutDir}/corrections.json

	FontSize int // 0 keeps the render stage default
}

// Processor coordinates OCR, prompt, judge and render.
type Processor struct {
	logger   *slog.Logger
	ocr      *OCRStage
	judge    *JudgeStage
	render   *RenderStage
	preparer *ocr.ImagePreparer
	exporter *export.Service
}

// NewProcessor wires the stages. ocrStage and judge may be nil when every run replays them.
func NewProcessor(
	logger *slog.Logger,
	ocrStage *OCRStage,
	judge *JudgeStage,
	renderStage *RenderStage,
	preparer *ocr.ImagePreparer,
	exporter *export.Service,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if renderStage == nil {
		renderStage = NewRenderStage(nil, 0, logger)
	}
	if preparer == nil {
		preparer = ocr.NewImagePreparer(ocr.Config{}, nil, logger)
	}
	if exporter == nil {
		exporter = export.NewService(logger)
	}
	return &Processor{
		logger:   logger,
		ocr:      ocrStage,
		judge:    judge,
		render:   renderStage,
		preparer: preparer,
		exporter: exporter,
	}
}

// Process runs the pipeline. The returned Run is filled in as far as the
// pipeline got, including on error.
func (p *Processor) Process(ctx context.Context, opts Options) (entity.Run, error) {
	run := entity.Run{
		ID:        uuid.New(),
		ImagePath: opts.ImagePath,
		OutDir:    opts.OutDir,
		StartedAt: time.Now().UTC(),
		Status:    constants.RunStatusRunning,
	}
	ctx = common.WithRunID(ctx, run.ID.String())
	logger := common.LoggerFromContext(ctx, p.logger)

	err := p.process(ctx, logger, opts, &run)
	finished := time.Now().UTC()
	run.FinishedAt = &finished
	if err != nil {
		run.Status = constants.RunStatusFailed
		logger.Error("pipeline.failed", "image", opts.ImagePath, "code", common.CodeOf(err), "error", err)
		return run, err
	}
	logger.Info("pipeline.ok",
		"image", opts.ImagePath,
		"out_dir", opts.OutDir,
		"regions", run.Regions,
		"corrections", run.Corrections,
		"elapsed_ms", finished.Sub(run.StartedAt).Milliseconds(),
	)
	return run, nil
}

func (p *Processor) process(ctx context.Context, logger *slog.Logger, opts Options, run *entity.Run) error {
	if err := common.NewValidator().
		Field("image", opts.ImagePath, common.Required, common.FileExists, common.ImageExtension).
		Field("out_dir", opts.OutDir, common.Required).
		Error(); err != nil {
		return err
	}
	store, err := NewStore(opts.OutDir)
	if err != nil {
		return err
	}

	imgPath, cleanup, err := p.preparer.Prepare(ctx, opts.ImagePath)
	if err != nil {
		return common.NewAppError(common.CodeOCRFailed, "prepare image", err)
	}
	if cleanup != nil {
		defer cleanup()
	}
	src, err := imaging.Open(imgPath, imaging.AutoOrientation(true))
	if err != nil {
		return common.NewAppError(common.CodeArtifactIO, "open image", err)
	}
	size := src.Bounds().Size()

	// 1) regions
	regions, err := p.regions(ctx, opts, store, imgPath, size)
	if err != nil {
		return err
	}
	run.Regions = len(regions)
	run.Status = constants.RunStatusOCROK

	// 2) region preview; a failure here never stops the run
	boxes := store.Path(constants.BoxesImageFile)
	if err := p.render.Renderer.VisualizeRegions(src, regions, boxes); err != nil {
		logger.Warn("pipeline.visualize.failed", "error", err)
	} else {
		run.Artifacts.BoxesImage = boxes
	}

	// 3) prompt
	prompt := llm.BuildGradingPrompt(regions, size.X, size.Y)
	if run.Artifacts.Prompt, err = store.WriteText(constants.PromptFile, prompt); err != nil {
		return err
	}

	// 4) corrections
	result, err := p.corrections(ctx, opts, store, prompt, imgPath)
	if err != nil {
		return err
	}
	run.Corrections = len(result.Corrections)
	run.Status = constants.RunStatusJudgeOK
	if run.Artifacts.Corrections, err = store.WriteJSON(constants.CorrectionsFile, result); err != nil {
		return err
	}

	// 5) ocr data + image info
	if run.Artifacts.OCRData, err = store.WriteJSON(constants.OCRDataFile, regions); err != nil {
		return err
	}
	if run.Artifacts.ImageInfo, err = store.WriteJSON(constants.ImageInfoFile, entity.ImageInfo{ImagePath: opts.ImagePath}); err != nil {
		return err
	}

	// 6) overlay + composite
	rep, err := p.render.Run(ctx, src, result, opts.FontSize, store.Path(constants.OverlayFile))
	if err != nil {
		return err
	}
	run.Artifacts.Overlay = rep.OverlayPath
	run.Artifacts.Composite = rep.CompositePath
	run.Status = constants.RunStatusRendered

	// 7) workbook; best effort like the preview
	report := store.Path(constants.ReportFile)
	snapshot := *run
	if err := p.exporter.WriteGradingWorkbook(ctx, report, export.GradingReport{Run: snapshot, Regions: regions, Result: result}); err != nil {
		logger.Warn("pipeline.report.failed", "error", err)
	} else {
		run.Artifacts.Report = report
	}
	return nil
}

func (p *Processor) regions(ctx context.Context, opts Options, store *Store, imgPath string, size image.Point) ([]entity.Region, error) {
	switch {
	case opts.UseOCRJSON != "":
		return LoadRegions(opts.UseOCRJSON)
	case !opts.SkipOCR:
		if p.ocr == nil {
			return nil, common.NewAppError(common.CodeOCRFailed, "no ocr engine configured", common.ErrInvalidInput)
		}
		return p.ocr.Run(ctx, imgPath, size.X, size.Y)
	default:
		return LoadRegions(store.Path(constants.OCRDataFile))
	}
}

func (p *Processor) corrections(ctx context.Context, opts Options, store *Store, prompt, imgPath string) (entity.JudgeResult, error) {
	switch {
	case opts.UseCorrections != "":
		return LoadJudgeResult(opts.UseCorrections, p.logger)
	case !opts.SkipJudge:
		return p.judge.Run(ctx, prompt, imgPath)
	default:
		res, err := LoadJudgeResult(store.Path(constants.CorrectionsFile), p.logger)
		if err != nil {
			return res, fmt.Errorf("skip-judge needs an earlier corrections file: %w", err)
		}
		return res, nil
	}
}
