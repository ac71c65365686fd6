package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/common"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/llm"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/ocr"
	_ "github.com/sevenweeks-07/vision-anchored-autograder/internal/ocr/documentai"
	_ "github.com/sevenweeks-07/vision-anchored-autograder/internal/ocr/tesseract"
	processor "github.com/sevenweeks-07/vision-anchored-autograder/internal/pipeline"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/render"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		image  = flag.String("image", "", "path to the answer sheet image (required)")
		outDir = flag.String("out-dir", constants.DefaultOutputsRoot, "output directory")
		engine = flag.String("engine", "", "ocr engine override: tesseract | documentai | json")
	)
	flag.Parse()

	if *image == "" {
		printError("Error: --image is required\n")
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	if *engine != "" {
		cfg.OCR.Engine = *engine
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := common.NewValidator().
		Field("image", *image, common.FileExists, common.ImageExtension).
		Error(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, cfg, *image, *outDir, logger); err != nil {
		logger.Error("extract failed", "image", *image, "error", err)
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *common.Config, imagePath, outDir string, logger *slog.Logger) error {
	detector, err := ocr.NewDetector(cfg.OCR, logger)
	if err != nil {
		return err
	}
	store, err := processor.NewStore(outDir)
	if err != nil {
		return err
	}

	path, cleanup, err := ocr.NewImagePreparer(cfg.OCR, nil, logger).Prepare(ctx, imagePath)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	size := src.Bounds().Size()

	regions, err := processor.NewOCRStage(detector, cfg.ClusterFor, logger).Run(ctx, path, size.X, size.Y)
	if err != nil {
		return err
	}

	boxes := store.Path(constants.BoxesImageFile)
	if err := render.NewRenderer(cfg.Render.FontPaths, logger).VisualizeRegions(src, regions, boxes); err != nil {
		logger.Warn("visualize failed", "error", err)
	}
	promptPath, err := store.WriteText(constants.PromptFile, llm.BuildGradingPrompt(regions, size.X, size.Y))
	if err != nil {
		return err
	}
	ocrPath, err := store.WriteJSON(constants.OCRDataFile, regions)
	if err != nil {
		return err
	}
	if _, err := store.WriteJSON(constants.ImageInfoFile, entity.ImageInfo{ImagePath: imagePath}); err != nil {
		return err
	}

	fmt.Printf("Extracted %d regions.\n", len(regions))
	fmt.Printf("- Boxes: %s\n", boxes)
	fmt.Printf("- Prompt: %s\n", promptPath)
	fmt.Printf("- OCR data: %s\n", ocrPath)
	return nil
}
