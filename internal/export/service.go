package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

const (
	SheetSummary     = "Summary"
	SheetCorrections = "Corrections"
	SheetRegions     = "Regions"
)

// GradingReport is everything the workbook shows for one run.
type GradingReport struct {
	Run     entity.Run
	Regions []entity.Region
	Result  entity.JudgeResult
}

// Service renders grading reports as XLSX workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// GradingWorkbookXLSX returns the workbook bytes: a summary sheet (active), then corrections, then regions.
func (s *Service) GradingWorkbookXLSX(ctx context.Context, rep GradingReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile ships with "Sheet1"; rename it so the summary is first.
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetCorrections, SheetRegions} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	idx, _ := f.GetSheetIndex(SheetSummary)
	f.SetActiveSheet(idx)

	if err := writeSummary(f, rep); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeCorrections(f, rep.Result.Corrections); err != nil {
		return nil, fmt.Errorf("corrections sheet: %w", err)
	}
	if err := writeRegions(f, rep.Regions); err != nil {
		return nil, fmt.Errorf("regions sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"run_id", rep.Run.ID.String(),
		"regions", len(rep.Regions),
		"corrections", len(rep.Result.Corrections),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteGradingWorkbook writes the workbook to path.
func (s *Service) WriteGradingWorkbook(ctx context.Context, path string, rep GradingReport) error {
	data, err := s.GradingWorkbookXLSX(ctx, rep)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) row(r int, vals ...any) {
	for i, v := range vals {
		if w.err != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(i+1, r)
		if err != nil {
			w.err = err
			return
		}
		w.err = w.f.SetCellValue(w.sheet, cell, v)
	}
}

func writeSummary(f *excelize.File, rep GradingReport) error {
	w := &sheetWriter{f: f, sheet: SheetSummary}
	counts := map[constants.CorrectionStatus]int{}
	for _, c := range rep.Result.Corrections {
		counts[c.Status]++
	}
	a := rep.Result.OverallAssessment

	finished := ""
	if rep.Run.FinishedAt != nil {
		finished = rep.Run.FinishedAt.UTC().Format(time.RFC3339)
	}
	rows := [][]any{
		{"Run ID", rep.Run.ID.String()},
		{"Image", rep.Run.ImagePath},
		{"Started", rep.Run.StartedAt.UTC().Format(time.RFC3339)},
		{"Finished", finished},
		{"Status", string(rep.Run.Status)},
		{"Regions", len(rep.Regions)},
		{"Correct", counts[constants.StatusCorrect]},
		{"Incorrect", counts[constants.StatusIncorrect]},
		{"Ignored", counts[constants.StatusIgnore]},
		{"Final Answer", finalAnswer(a)},
		{"Key Strengths", deref(a.KeyStrengths)},
		{"Areas for Improvement", deref(a.AreasForImprovement)},
	}
	for i, r := range rows {
		w.row(i+1, r...)
	}
	if w.err != nil {
		return w.err
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 24)
	_ = f.SetColWidth(SheetSummary, "B", "B", 80)
	return nil
}

func writeCorrections(f *excelize.File, cs []entity.Correction) error {
	w := &sheetWriter{f: f, sheet: SheetCorrections}
	w.row(1, "Region", "Status", "Marking", "Student Wrote", "Interpretation", "Corrected", "Reasoning", "Scratched", "BBox")
	for i, c := range cs {
		bbox := ""
		if c.BBox != nil {
			bbox = formatBBox(*c.BBox)
		}
		w.row(i+2, c.ID, string(c.Status), string(c.Marking), c.OriginalText,
			c.MathematicalInterpretation, c.CorrectedText, truncate(c.Reasoning, 500), c.Scratched, bbox)
	}
	if w.err != nil {
		return w.err
	}
	_ = f.SetColWidth(SheetCorrections, "A", "C", 11)
	_ = f.SetColWidth(SheetCorrections, "D", "F", 30)
	_ = f.SetColWidth(SheetCorrections, "G", "G", 60)
	_ = f.SetColWidth(SheetCorrections, "I", "I", 24)
	return nil
}

func writeRegions(f *excelize.File, regions []entity.Region) error {
	w := &sheetWriter{f: f, sheet: SheetRegions}
	w.row(1, "Region", "Text", "Confidence", "Words", "Left", "Top", "Right", "Bottom")
	for i, r := range regions {
		w.row(i+2, r.ID, r.Text, r.Confidence, r.SourceCount,
			r.BBox.Left(), r.BBox.Top(), r.BBox.Right(), r.BBox.Bottom())
	}
	if w.err != nil {
		return w.err
	}
	_ = f.SetColWidth(SheetRegions, "B", "B", 48)
	return nil
}

func finalAnswer(a entity.Assessment) string {
	if a.FinalAnswerStatus == "" {
		return constants.NotProvided
	}
	return strings.ToUpper(string(a.FinalAnswerStatus))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatBBox(b entity.BBox) string {
	return fmt.Sprintf("[%d,%d]-[%d,%d]", b.Left(), b.Top(), b.Right(), b.Bottom())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
