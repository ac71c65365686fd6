package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
)

// Run describes one pipeline execution over a single image.
type Run struct {
	ID          uuid.UUID           `json:"id"`
	ImagePath   string              `json:"image_path"`
	OutDir      string              `json:"out_dir"`
	StartedAt   time.Time           `json:"started_at"`
	FinishedAt  *time.Time          `json:"finished_at,omitempty"`
	Status      constants.RunStatus `json:"status"`
	Regions     int                 `json:"regions"`
	Corrections int                 `json:"corrections"`
	Artifacts   RunArtifacts        `json:"artifacts"`
}

// RunArtifacts are the paths produced by a run. Empty paths were not written.
type RunArtifacts struct {
	BoxesImage  string `json:"boxes_image,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
	Corrections string `json:"corrections,omitempty"`
	OCRData     string `json:"ocr_data,omitempty"`
	ImageInfo   string `json:"image_info,omitempty"`
	Overlay     string `json:"overlay,omitempty"`
	Composite   string `json:"composite,omitempty"`
	Report      string `json:"report,omitempty"`
}

// ImageInfo is persisted as image_info.json.
type ImageInfo struct {
	ImagePath string `json:"image_path"`
}
