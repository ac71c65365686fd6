// Package render draws grading marks onto answer-sheet images.
//
// An overlay is a transparent RGBA canvas the size of the source image plus a
// footer band. Correct regions get a green checkmark to their right,
// incorrect regions get a red outline and, when the judge supplied a
// different text, a red label placed so that it never leaves the image.
// The footer summarises the overall assessment. A composite pastes the
// source onto an opaque white canvas of the same size and alpha-composites
// the overlay on top.
package render
