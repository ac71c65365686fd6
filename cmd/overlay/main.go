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
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/ocr"
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
		image       = flag.String("image", "", "answer sheet image (required)")
		corrections = flag.String("corrections", constants.CorrectionsFile, "corrections JSON")
		output      = flag.String("output", constants.OverlayFile, "overlay output path")
		fontSize    = flag.Int("font-size", 32, "font size for labels and footer")
	)
	flag.Parse()

	if err := common.NewValidator().
		Field("image", *image, common.Required, common.FileExists, common.ImageExtension).
		Field("corrections", *corrections, common.FileExists).
		Field("font-size", *fontSize, common.Positive).
		Error(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	result, err := processor.LoadJudgeResult(*corrections, logger)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	path, cleanup, err := ocr.NewImagePreparer(cfg.OCR, nil, logger).Prepare(context.Background(), *image)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		printError("Error: open image: %v\n", err)
		os.Exit(1)
	}

	rep, err := render.NewRenderer(cfg.Render.FontPaths, logger).
		Render(src, result.Corrections, result.OverallAssessment, *fontSize, *output)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Overlay saved to: %s\n", rep.OverlayPath)
	fmt.Printf("Complete image saved to: %s\n", rep.CompositePath)
}
