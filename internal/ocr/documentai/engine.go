// Package documentai is the cloud OCR engine, backed by a Google Document AI OCR processor.
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS.
package documentai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/ocr"
)

func init() {
	ocr.Register(ocr.EngineDocumentAI, func(cfg ocr.Config, logger *slog.Logger) (ocr.Detector, error) {
		pc, err := LoadProcessorConfig(cfg.DocumentAIConfig)
		if err != nil {
			return nil, err
		}
		return New(pc, logger), nil
	})
}

type processFunc func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error)

type Engine struct {
	cfg     ProcessorConfig
	process processFunc
	logger  *slog.Logger
}

func New(cfg ProcessorConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{cfg: cfg, logger: logger}
	e.process = e.callProcessor
	return e
}

func (e *Engine) Name() string { return ocr.EngineDocumentAI }

func (e *Engine) Detect(ctx context.Context, imagePath string) ([]entity.WordBox, error) {
	start := time.Now()
	content, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	req := &documentaipb.ProcessRequest{
		Name: e.cfg.ResourceName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType(imagePath),
			},
		},
		SkipHumanReview: true,
	}
	doc, err := e.process(ctx, req)
	if err != nil {
		e.logger.Error("ocr.documentai.failed", "path", imagePath, "processor", req.Name, "error", err)
		return nil, fmt.Errorf("process document: %w", err)
	}
	words := wordsFromDocument(doc)
	e.logger.Info("ocr.documentai.ok",
		"path", imagePath,
		"pages", len(doc.GetPages()),
		"words", len(words),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return words, nil
}

func (e *Engine) callProcessor(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error) {
	client, err := documentai.NewDocumentProcessorClient(
		ctx,
		option.WithEndpoint(e.cfg.Endpoint()),
		option.WithCredentialsFile(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
	)
	if err != nil {
		return nil, fmt.Errorf("create document ai client: %w", err)
	}
	defer client.Close()

	resp, err := client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.GetDocument(), nil
}

func mimeType(path string) string {
	switch constants.NormalizeExt(filepath.Ext(path)) {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tif", "tiff":
		return "image/tiff"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
