package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/common"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/export"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/llm/openai"
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
		image          = flag.String("image", "", "path to the answer sheet image")
		outDir         = flag.String("out-dir", "", "output directory (default: outputs/<YYYYMMDD_HHMMSS>)")
		useOCRJSON     = flag.String("use-ocr-json", "", "use an existing regions JSON instead of running OCR")
		useCorrections = flag.String("use-corrections", "", "use an existing corrections JSON instead of calling the model")
		skipOCR        = flag.Bool("skip-ocr", false, "skip OCR (expects ocr_data.json in out-dir)")
		skipJudge      = flag.Bool("skip-judge", false, "skip the model (expects corrections.json in out-dir)")
		fontSize       = flag.Int("font-size", 0, "overlay font size (default RENDER_FONT_SIZE or 32)")
	)
	flag.Parse()

	if *image == "" {
		printError("Error: --image is required\n")
		os.Exit(1)
	}
	if _, err := os.Stat(*image); err != nil {
		printError("Image not found: %s\n", *image)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if *outDir == "" {
		*outDir = processor.DefaultRunDir(cfg.Output.BaseDir, time.Now())
	}

	needOCR := *useOCRJSON == "" && !*skipOCR
	needJudge := *useCorrections == "" && !*skipJudge

	var ocrStage *processor.OCRStage
	if needOCR {
		detector, err := ocr.NewDetector(cfg.OCR, logger)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		ocrStage = processor.NewOCRStage(detector, cfg.ClusterFor, logger)
	}

	var judgeStage *processor.JudgeStage
	if needJudge {
		if err := cfg.ValidateJudge(); err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		judgeStage = processor.NewJudgeStage(openai.NewClient(cfg.LLM, logger), logger)
	}

	p := processor.NewProcessor(
		logger,
		ocrStage,
		judgeStage,
		processor.NewRenderStage(render.NewRenderer(cfg.Render.FontPaths, logger), cfg.Render.FontSize, logger),
		ocr.NewImagePreparer(cfg.OCR, nil, logger),
		export.NewService(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run, err := p.Process(ctx, processor.Options{
		ImagePath:      *image,
		OutDir:         *outDir,
		UseOCRJSON:     *useOCRJSON,
		UseCorrections: *useCorrections,
		SkipOCR:        *skipOCR,
		SkipJudge:      *skipJudge,
		FontSize:       *fontSize,
	})
	if err != nil {
		printError("Pipeline failed (%s): %v\n", run.Status, err)
		os.Exit(1)
	}
	printRun(run)
}

func printRun(run entity.Run) {
	a := run.Artifacts
	fmt.Println("Pipeline complete.")
	fmt.Printf("- Boxes: %s\n", a.BoxesImage)
	fmt.Printf("- Prompt: %s\n", a.Prompt)
	fmt.Printf("- Corrections: %s\n", a.Corrections)
	fmt.Printf("- Overlay: %s\n", a.Overlay)
	fmt.Printf("- Composite: %s\n", a.Composite)
	fmt.Printf("- Report: %s\n", a.Report)
}
