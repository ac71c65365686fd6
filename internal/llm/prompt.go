package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sevenweeks-07/vision-anchored-autograder/internal/entity"
)

const gradingPreamble = "You are an experienced mathematics and english teacher evaluating a student's handwritten solution. " +
	"Focus on math/grammar; be tolerant to handwriting."

const gradingTrailer = "\nReturn strict JSON with fields: corrections[id,status,original_text,mathematical_interpretation," +
	"corrected_text,reasoning,marking,bbox{top_left,bottom_right},scratched], " +
	"and overall_assessment{key_strengths,areas_for_improvement,final_answer_status}."

// BuildGradingPrompt lists every region in reading order (top, then left)
// with its id, position and text, and asks for the corrections JSON.
func BuildGradingPrompt(regions []entity.Region, imgWidth, imgHeight int) string {
	sorted := make([]entity.Region, len(regions))
	copy(sorted, regions)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].BBox, sorted[j].BBox
		if a.Top() != b.Top() {
			return a.Top() < b.Top()
		}
		return a.Left() < b.Left()
	})

	var b strings.Builder
	b.WriteString(gradingPreamble)
	fmt.Fprintf(&b, "\n\nImage size: %dx%d pixels\n\nDETECTED TEXT REGIONS:\n", imgWidth, imgHeight)
	for _, r := range sorted {
		fmt.Fprintf(&b, "Region %d:\n", r.ID)
		fmt.Fprintf(&b, "Position: [%d,%d] to [%d,%d]\n", r.BBox.Left(), r.BBox.Top(), r.BBox.Right(), r.BBox.Bottom())
		fmt.Fprintf(&b, "Student wrote: \"%s\"\n---\n", r.Text)
	}
	b.WriteString(gradingTrailer)
	return b.String()
}
