package constants

import "strings"

// CorrectionStatus is the judge's verdict for one text region.
type CorrectionStatus string

const (
	StatusCorrect   CorrectionStatus = "correct"
	StatusIncorrect CorrectionStatus = "incorrect"
	StatusIgnore    CorrectionStatus = "ignore"
)

// Marking selects the outline drawn around an incorrect region.
type Marking string

const (
	MarkingRectangle Marking = "rectangle"
	MarkingCircle    Marking = "circle"
)

// FinalAnswerStatus summarises the whole answer sheet.
type FinalAnswerStatus string

const (
	FinalCorrect   FinalAnswerStatus = "correct"
	FinalIncorrect FinalAnswerStatus = "incorrect"
	FinalOther     FinalAnswerStatus = "other"
)

// NotProvided is the placeholder models emit for absent assessment fields.
const NotProvided = "Not provided"

// RunStatus is reported by the pipeline for each stage it finishes.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "RUNNING"
	RunStatusOCROK    RunStatus = "OCR_OK"
	RunStatusJudgeOK  RunStatus = "JUDGE_OK"
	RunStatusRendered RunStatus = "RENDERED"
	RunStatusFailed   RunStatus = "FAILED"
)

var statusSynonyms = map[string]CorrectionStatus{
	"right":   StatusCorrect,
	"ok":      StatusCorrect,
	"wrong":   StatusIncorrect,
	"error":   StatusIncorrect,
	"skip":    StatusIgnore,
	"ignored": StatusIgnore,
}

// CanonicalStatus maps free-form model output onto a CorrectionStatus.
// An empty value means incorrect; anything unrecognised is ignored.
func CanonicalStatus(input string) (CorrectionStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	switch CorrectionStatus(normalized) {
	case "":
		return StatusIncorrect, false
	case StatusCorrect, StatusIncorrect, StatusIgnore:
		return CorrectionStatus(normalized), true
	}
	if s, ok := statusSynonyms[normalized]; ok {
		return s, true
	}
	return StatusIgnore, false
}

// CanonicalMarking returns circle for circle-like values and rectangle otherwise.
func CanonicalMarking(input string) Marking {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "circle", "ellipse", "oval":
		return MarkingCircle
	default:
		return MarkingRectangle
	}
}
