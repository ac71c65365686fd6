package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/common"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/llm"
	"github.com/sevenweeks-07/vision-anchored-autograder/internal/llm/openai"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		promptFile = flag.String("prompt-file", "", "grading prompt text file (required)")
		image      = flag.String("image", "", "answer sheet image sent with the prompt (required)")
		outputFile = flag.String("output-file", "", "where to write the corrections JSON (required)")
	)
	flag.Parse()

	if err := common.NewValidator().
		Field("prompt-file", *promptFile, common.Required, common.FileExists).
		Field("image", *image, common.Required, common.FileExists, common.ImageExtension).
		Field("output-file", *outputFile, common.Required).
		Error(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	cfg := common.LoadConfig()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := cfg.ValidateJudge(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	prompt, err := os.ReadFile(*promptFile)
	if err != nil {
		printError("Error: read prompt: %v\n", err)
		os.Exit(1)
	}

	client := openai.NewClient(cfg.LLM, logger)
	_, normalized, err := client.Judge(context.Background(), llm.JudgeRequest{
		Prompt:    string(prompt),
		ImagePath: *image,
	})
	if err != nil {
		logger.Error("judge failed", "model", client.Model(), "error", err)
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, normalized, "", "  "); err != nil {
		printError("Error: format corrections: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputFile, pretty.Bytes(), 0o644); err != nil {
		printError("Error: write %s: %v\n", *outputFile, err)
		os.Exit(1)
	}
	fmt.Printf("Saved corrections to %s\n", *outputFile)
}
