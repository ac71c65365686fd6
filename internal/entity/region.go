package entity

import "encoding/json"

// WordBox is one OCR-detected word.
type WordBox struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`
}

// Region is a cluster of word boxes treated as one unit of student writing.
type Region struct {
	ID          int     `json:"id"`
	Text        string  `json:"text"`
	Confidence  float64 `json:"confidence"`
	BBox        BBox    `json:"bbox"`
	SourceCount int     `json:"source_count"`
}

// UnmarshalJSON also accepts the legacy "original_boxes" key for SourceCount
// and defaults the count to 1 when neither key is present.
func (r *Region) UnmarshalJSON(data []byte) error {
	type alias Region
	aux := struct {
		*alias
		SourceCount   *int `json:"source_count"`
		OriginalBoxes *int `json:"original_boxes"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch {
	case aux.SourceCount != nil:
		r.SourceCount = *aux.SourceCount
	case aux.OriginalBoxes != nil:
		r.SourceCount = *aux.OriginalBoxes
	default:
		r.SourceCount = 1
	}
	return nil
}
