package processor

import (
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/common"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/llm"
)

type fakeDetector struct {
	words []entity.WordBox
	err   error
	seen  string
}

func (f *fakeDetector) Name() string { return "fake" }

func (f *fakeDetector) Detect(_ context.Context, path string) ([]entity.WordBox, error) {
	f.seen = path
	return f.words, f.err
}

type fakeJudge struct {
	res entity.JudgeResult
	err error
	req llm.JudgeRequest
}

func (f *fakeJudge) Judge(_ context.Context, req llm.JudgeRequest) (entity.JudgeResult, []byte, error) {
	f.req = req
	return f.res, nil, f.err
}

func writeImage(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sheet.png")
	if err := imaging.Save(imaging.New(200, 120, color.White), path); err != nil {
		t.Fatalf("save image: %v", err)
	}
	return path
}

func twoWords() []entity.WordBox {
	return []entity.WordBox{
		{Text: "A", Confidence: 0.9, BBox: entity.NewBBox(10, 10, 50, 30)},
		{Text: "B", Confidence: 0.8, BBox: entity.NewBBox(60, 12, 90, 32)},
	}
}

func correctResult() entity.JudgeResult {
	box := entity.NewBBox(10, 10, 90, 32)
	return entity.JudgeResult{
		Corrections: []entity.Correction{{ID: 0, Status: constants.StatusCorrect, OriginalText: "A B", BBox: &box}},
		OverallAssessment: entity.Assessment{
			FinalAnswerStatus: constants.FinalCorrect,
		},
	}
}

func newTestProcessor(d *fakeDetector, j *fakeJudge) *Processor {
	var ocrStage *OCRStage
	if d != nil {
		ocrStage = NewOCRStage(d, nil, nil)
	}
	var judgeStage *JudgeStage
	if j != nil {
		judgeStage = NewJudgeStage(j, nil)
	}
	return NewProcessor(nil, ocrStage, judgeStage, NewRenderStage(nil, 12, nil), nil, nil)
}

func TestProcessFullRun(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir)
	out := filepath.Join(dir, "run")
	d := &fakeDetector{words: twoWords()}
	j := &fakeJudge{res: correctResult()}

	run, err := newTestProcessor(d, j).Process(context.Background(), Options{ImagePath: img, OutDir: out})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if run.Status != constants.RunStatusRendered || run.FinishedAt == nil {
		t.Fatalf("unexpected run state %+v", run)
	}
	if run.Regions != 1 || run.Corrections != 1 {
		t.Fatalf("regions=%d corrections=%d", run.Regions, run.Corrections)
	}
	if d.seen != img || j.req.ImagePath != img {
		t.Fatalf("stages saw %q / %q", d.seen, j.req.ImagePath)
	}
	if !strings.Contains(j.req.Prompt, `Student wrote: "A B"`) || !strings.Contains(j.req.Prompt, "200x120") {
		t.Fatalf("unexpected prompt:\n%s", j.req.Prompt)
	}

	a := run.Artifacts
	for _, p := range []string{a.BoxesImage, a.Prompt, a.Corrections, a.OCRData, a.ImageInfo, a.Overlay, a.Composite, a.Report} {
		if p == "" {
			t.Fatalf("missing artifact path in %+v", a)
		}
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("artifact %s: %v", p, err)
		}
	}
	if a.Composite != filepath.Join(out, "corrected_overlay_complete.png") {
		t.Fatalf("composite path = %s", a.Composite)
	}

	regions, err := LoadRegions(a.OCRData)
	if err != nil {
		t.Fatalf("LoadRegions() error = %v", err)
	}
	if len(regions) != 1 || regions[0].Text != "A B" || regions[0].BBox != entity.NewBBox(10, 10, 90, 32) {
		t.Fatalf("unexpected regions %+v", regions)
	}

	var info entity.ImageInfo
	data, _ := os.ReadFile(a.ImageInfo)
	if err := json.Unmarshal(data, &info); err != nil || info.ImagePath != img {
		t.Fatalf("image_info.json = %s (%v)", data, err)
	}
}

func TestProcessReplaysFiles(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir)

	first := filepath.Join(dir, "first")
	run, err := newTestProcessor(&fakeDetector{words: twoWords()}, &fakeJudge{res: correctResult()}).
		Process(context.Background(), Options{ImagePath: img, OutDir: first})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	// No OCR engine or judge: everything comes from the first run's files.
	second := filepath.Join(dir, "second")
	replay, err := newTestProcessor(nil, nil).Process(context.Background(), Options{
		ImagePath:      img,
		OutDir:         second,
		UseOCRJSON:     run.Artifacts.OCRData,
		UseCorrections: run.Artifacts.Corrections,
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replay.Regions != 1 || replay.Corrections != 1 || replay.Status != constants.RunStatusRendered {
		t.Fatalf("unexpected replay %+v", replay)
	}

	// Skip flags read from the run directory itself.
	again, err := newTestProcessor(nil, nil).Process(context.Background(), Options{
		ImagePath: img, OutDir: second, SkipOCR: true, SkipJudge: true,
	})
	if err != nil {
		t.Fatalf("skip run: %v", err)
	}
	if again.Regions != 1 || again.Corrections != 1 {
		t.Fatalf("unexpected skip run %+v", again)
	}
}

func TestProcessSkipOCRWithoutData(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir)
	run, err := newTestProcessor(nil, nil).Process(context.Background(), Options{
		ImagePath: img, OutDir: filepath.Join(dir, "empty"), SkipOCR: true,
	})
	if common.CodeOf(err) != common.CodeArtifactIO {
		t.Fatalf("expected ARTIFACT_IO, got %v", err)
	}
	if run.Status != constants.RunStatusFailed {
		t.Fatalf("status = %s", run.Status)
	}
}

func TestProcessValidatesImage(t *testing.T) {
	dir := t.TempDir()
	_, err := newTestProcessor(nil, nil).Process(context.Background(), Options{
		ImagePath: filepath.Join(dir, "missing.png"), OutDir: dir,
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := newTestProcessor(nil, nil).Process(context.Background(), Options{ImagePath: notes, OutDir: dir}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected extension error, got %v", err)
	}
}

func TestProcessJudgeFailure(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir)
	out := filepath.Join(dir, "run")
	boom := errors.New("model does not accept images")

	run, err := newTestProcessor(&fakeDetector{words: twoWords()}, &fakeJudge{err: boom}).
		Process(context.Background(), Options{ImagePath: img, OutDir: out})
	if common.CodeOf(err) != common.CodeJudgeFailed || !errors.Is(err, boom) || !errors.Is(err, common.ErrExternal) {
		t.Fatalf("unexpected error %v", err)
	}
	if run.Status != constants.RunStatusFailed || run.Regions != 1 {
		t.Fatalf("unexpected run %+v", run)
	}
	if _, err := os.Stat(filepath.Join(out, constants.PromptFile)); err != nil {
		t.Fatalf("prompt should be written before judging: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, constants.OverlayFile)); !os.IsNotExist(err) {
		t.Fatal("overlay must not be written after a judge failure")
	}
}

func TestProcessOCRFailure(t *testing.T) {
	dir := t.TempDir()
	img := writeImage(t, dir)
	_, err := newTestProcessor(&fakeDetector{err: errors.New("tesseract crashed")}, nil).
		Process(context.Background(), Options{ImagePath: img, OutDir: filepath.Join(dir, "run")})
	if common.CodeOf(err) != common.CodeOCRFailed {
		t.Fatalf("expected OCR_FAILED, got %v", err)
	}
}

func TestDefaultRunDir(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	if got := DefaultRunDir("", at); got != filepath.Join("outputs", "20240506_070809") {
		t.Fatalf("DefaultRunDir() = %s", got)
	}
	if got := DefaultRunDir("runs", at); got != filepath.Join("runs", "20240506_070809") {
		t.Fatalf("DefaultRunDir() = %s", got)
	}
}

func TestStoreWriteJSONKeepsUnicode(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "run"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	path, err := s.WriteJSON("x.json", map[string]string{"text": "x ≤ 3 & y"})
	if err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "x ≤ 3 & y") || !strings.Contains(string(data), "\n  \"text\"") {
		t.Fatalf("unexpected encoding: %s", data)
	}
}
