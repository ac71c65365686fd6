package entity

import "github.com/sevenweeks-07/vision-anchored-autograder/constants"

// Correction is the judge's verdict for one region.
type Correction struct {
	ID                         int                        `json:"id"`
	Status                     constants.CorrectionStatus `json:"status"`
	OriginalText               string                     `json:"original_text"`
	MathematicalInterpretation string                     `json:"mathematical_interpretation,omitempty"`
	CorrectedText              string                     `json:"corrected_text,omitempty"`
	Reasoning                  string                     `json:"reasoning,omitempty"`
	Marking                    constants.Marking          `json:"marking,omitempty"`
	BBox                       *BBox                      `json:"bbox,omitempty"`
	Scratched                  bool                       `json:"scratched,omitempty"`
}

// NeedsLabel reports whether the corrected text should be drawn next to the region.
func (c Correction) NeedsLabel() bool {
	return c.CorrectedText != "" && c.CorrectedText != c.OriginalText
}

// Assessment is the whole-sheet summary. Nil optional fields were not provided.
type Assessment struct {
	FinalAnswerStatus   constants.FinalAnswerStatus `json:"final_answer_status,omitempty"`
	KeyStrengths        *string                     `json:"key_strengths,omitempty"`
	AreasForImprovement *string                     `json:"areas_for_improvement,omitempty"`
}

// IsEmpty reports whether no field of the assessment was provided.
func (a Assessment) IsEmpty() bool {
	return a.FinalAnswerStatus == "" && a.KeyStrengths == nil && a.AreasForImprovement == nil
}

// JudgeResult is the parsed judge payload persisted as corrections.json.
type JudgeResult struct {
	Corrections       []Correction `json:"corrections"`
	OverallAssessment Assessment   `json:"overall_assessment"`
}
