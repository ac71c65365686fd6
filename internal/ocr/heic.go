package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
)

var ErrHEICUnsupported = errors.New("HEIC not supported: set HEIC_CONVERTER to one of heif-convert | magick | sips")

// ImagePreparer converts inputs the image decoders cannot read (HEIC/HEIF) into PNG.
type ImagePreparer struct {
	converter string
	cacheDir  string
	runner    Runner
	logger    *slog.Logger
}

func NewImagePreparer(cfg Config, runner Runner, logger *slog.Logger) *ImagePreparer {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = ExecRunner{Logger: logger}
	}
	return &ImagePreparer{
		converter: cfg.HeicConverter,
		cacheDir:  cfg.ArtifactCacheDir,
		runner:    runner,
		logger:    logger,
	}
}

// Prepare returns a decodable path for in. Non-HEIC inputs come back unchanged.
//
// With a cache dir the PNG is kept at {cacheDir}/{sha256}.png and reused on the
// next call; cleanup is nil. Without one the PNG lives in a temp dir that
// cleanup removes.
func (p *ImagePreparer) Prepare(ctx context.Context, in string) (string, func(), error) {
	if !constants.IsHEICExt(filepath.Ext(in)) {
		return in, nil, nil
	}

	var cached string
	if p.cacheDir != "" {
		sum, err := fileSHA256(in)
		if err != nil {
			return "", nil, err
		}
		cached = filepath.Join(p.cacheDir, sum+".png")
		if st, err := os.Stat(cached); err == nil && !st.IsDir() {
			p.logger.Debug("ocr.heic.cache_hit", "path", in, "cache", cached)
			return cached, nil, nil
		}
		if err := os.MkdirAll(p.cacheDir, 0o755); err != nil {
			return "", nil, err
		}
	}

	tmpDir, err := os.MkdirTemp("", "autograder-heic-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "page.png")

	if err := p.convert(ctx, in, out); err != nil {
		cleanup()
		return "", nil, err
	}
	if _, err := os.Stat(out); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("HEIC conversion produced no output: %w", err)
	}

	if cached == "" {
		p.logger.Debug("ocr.heic.converted", "path", in, "out", out)
		return out, cleanup, nil
	}

	defer cleanup()
	if err := moveFile(out, cached); err != nil {
		// another process may have won the race
		if st, statErr := os.Stat(cached); statErr == nil && !st.IsDir() {
			return cached, nil, nil
		}
		return "", nil, err
	}
	p.logger.Debug("ocr.heic.converted", "path", in, "cache", cached)
	return cached, nil, nil
}

func (p *ImagePreparer) convert(ctx context.Context, in, out string) error {
	var args []string
	switch p.converter {
	case "heif-convert", "magick":
		args = []string{in, out}
	case "sips":
		args = []string{"-s", "format", "png", in, "--out", out}
	default:
		return ErrHEICUnsupported
	}
	if _, errb, err := p.runner.Run(ctx, p.converter, args...); err != nil {
		return fmt.Errorf("%s failed: %w (%s)", p.converter, err, truncate(string(errb), 512))
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// moveFile renames src to dst, copying when the rename crosses devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
