package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/common"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/llm"
)

// JudgeStage asks the grading model for corrections.
type JudgeStage struct {
	Judge  llm.Judge
	Logger *slog.Logger
}

func NewJudgeStage(j llm.Judge, logger *slog.Logger) *JudgeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &JudgeStage{Judge: j, Logger: logger}
}

func (s *JudgeStage) Run(ctx context.Context, prompt, imagePath string) (entity.JudgeResult, error) {
	if s == nil || s.Judge == nil {
		return entity.JudgeResult{}, common.NewAppError(common.CodeJudgeFailed, "no judge configured", common.ErrInvalidInput)
	}
	logger := common.LoggerFromContext(ctx, s.Logger)
	start := time.Now()

	res, _, err := s.Judge.Judge(ctx, llm.JudgeRequest{Prompt: prompt, ImagePath: imagePath})
	if err != nil {
		logger.Error("pipeline.judge.failed", "error", err)
		return entity.JudgeResult{}, common.NewAppError(common.CodeJudgeFailed, "grading request failed", fmt.Errorf("%w: %w", common.ErrExternal, err))
	}
	logger.Info("pipeline.judge.ok",
		"corrections", len(res.Corrections),
		"final_answer_status", string(res.OverallAssessment.FinalAnswerStatus),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
