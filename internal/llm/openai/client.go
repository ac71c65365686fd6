package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/llm"
)

// ErrEmptyOutput means the response carried no text to parse.
var ErrEmptyOutput = errors.New("openai response has no output text")

// responsesReply is the subset of the Responses API reply we read.
type responsesReply struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// Text prefers output_text and otherwise joins every content text part.
func (r responsesReply) Text() string {
	if strings.TrimSpace(r.OutputText) != "" {
		return r.OutputText
	}
	var parts []string
	for _, item := range r.Output {
		for _, c := range item.Content {
			if c.Text != "" {
				parts = append(parts, c.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// Judge implements llm.Judge: the grading prompt and the page image go out
// in one multimodal request and the reply is parsed into corrections.
func (c *Client) Judge(ctx context.Context, req llm.JudgeRequest) (entity.JudgeResult, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.judge.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"prompt_len", len(req.Prompt),
		"image", req.ImagePath,
	)

	dataURL, mimeType, err := llm.ReadAsDataURL(req.ImagePath)
	if err != nil {
		return entity.JudgeResult{}, nil, fmt.Errorf("read image: %w", err)
	}

	body := map[string]any{
		"model": c.cfg.Model,
		"input": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "input_text", "text": req.Prompt},
					{"type": "input_image", "image_url": dataURL},
				},
			},
		},
		"temperature":       c.cfg.Temperature,
		"max_output_tokens": c.cfg.MaxOutputTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/responses"
	raw, status, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("llm.judge.http_error",
			"req_id", rid, "status", status, "mime", mimeType, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.JudgeResult{}, raw, fmt.Errorf(
			"openai call failed; ensure the model supports images (e.g. gpt-4o, o4). current model: %s: %w",
			c.cfg.Model, err)
	}

	var reply responsesReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		c.log.Error("llm.judge.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return entity.JudgeResult{}, raw, fmt.Errorf("decode openai response: %w", err)
	}
	text := reply.Text()
	if strings.TrimSpace(text) == "" {
		c.log.Error("llm.judge.empty_output", "req_id", rid, "raw", string(raw))
		return entity.JudgeResult{}, raw, ErrEmptyOutput
	}

	out, normalized, err := llm.ParseJudgeResponse(text, c.log)
	if err != nil {
		c.log.Error("llm.judge.parse_failed",
			"req_id", rid, "error", err, "text_len", len(text),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.JudgeResult{}, normalized, err
	}

	c.log.Info("llm.judge.ok",
		"req_id", rid,
		"corrections", len(out.Corrections),
		"final_answer_status", out.OverallAssessment.FinalAnswerStatus,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, normalized, nil
}
