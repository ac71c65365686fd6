package llm

import (
	"context"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

// JudgeRequest is what a judge needs to grade one answer sheet.
type JudgeRequest struct {
	Prompt    string
	ImagePath string
}

// Judge is the interface our pipeline depends on.
type Judge interface {
	Judge(ctx context.Context, req JudgeRequest) (entity.JudgeResult, []byte /*normalized JSON*/, error)
}
