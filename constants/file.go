package constants

import "strings"

// AllowedExtensions holds the image extensions the pipeline accepts.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"bmp":  {},
	"tif":  {},
	"tiff": {},
	"heic": {},
	"heif": {},
}

// Artifact file names written into a run directory.
const (
	BoxesImageFile     = "visualized_boxes.jpg"
	PromptFile         = "chatgpt_prompt.txt"
	CorrectionsFile    = "corrections.json"
	OCRDataFile        = "ocr_data.json"
	ImageInfoFile      = "image_info.json"
	OverlayFile        = "corrected_overlay.png"
	ReportFile         = "grading_report.xlsx"
	CompositeSuffix    = "_complete"
	DefaultOutputsRoot = "outputs"
	RunDirLayout       = "20060102_150405"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether ext (with or without dot) is a supported image type.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// IsHEICExt reports whether ext names a HEIC/HEIF container.
func IsHEICExt(ext string) bool {
	switch NormalizeExt(ext) {
	case "heic", "heif", "heics", "heifs":
		return true
	}
	return false
}
