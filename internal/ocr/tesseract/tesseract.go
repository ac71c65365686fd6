// Package tesseract is the local OCR engine, backed by libtesseract through gosseract.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/ocr"
)

func init() {
	ocr.Register(ocr.EngineTesseract, func(cfg ocr.Config, logger *slog.Logger) (ocr.Detector, error) {
		return New(cfg, logger), nil
	})
}

// Engine detects words with gosseract at word granularity.
type Engine struct {
	lang          string
	tessdata      string
	preprocess    bool
	clientFactory func() *gosseract.Client
	logger        *slog.Logger
}

func New(cfg ocr.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	lang := cfg.Language
	if lang == "" {
		lang = "eng"
	}
	return &Engine{
		lang:          lang,
		tessdata:      cfg.TessdataDir,
		preprocess:    cfg.Preprocess,
		clientFactory: gosseract.NewClient,
		logger:        logger,
	}
}

func (e *Engine) Name() string { return ocr.EngineTesseract }

func (e *Engine) Detect(ctx context.Context, imagePath string) ([]entity.WordBox, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	if e.preprocess {
		img = enhance(img)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	c := e.clientFactory()
	defer c.Close()
	if e.tessdata != "" {
		if err := c.SetTessdataPrefix(e.tessdata); err != nil {
			return nil, fmt.Errorf("set tessdata: %w", err)
		}
	}
	if err := c.SetLanguage(strings.Split(e.lang, "+")...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("recognize words: %w", err)
	}

	words := wordsFromBoxes(boxes)
	e.logger.Info("ocr.tesseract.ok",
		"path", imagePath,
		"words", len(words),
		"raw_boxes", len(boxes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return words, nil
}
