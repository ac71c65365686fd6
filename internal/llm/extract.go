package llm

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrNoJSON means the model text contained no JSON object.
	ErrNoJSON = errors.New("no JSON object found in model response")
	// ErrMissingCorrections means the JSON object had no corrections array.
	ErrMissingCorrections = errors.New("model response missing 'corrections' array")
)

var (
	fencedJSON = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")
	outerJSON  = regexp.MustCompile(`(\{[\s\S]*\})`)
)

// ExtractJSONObject pulls the JSON object out of free-form model text.
// A fenced ```json block wins; otherwise the span from the first '{' to the
// last '}' is used.
func ExtractJSONObject(text string) ([]byte, error) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return []byte(strings.TrimSpace(m[1])), nil
	}
	if m := outerJSON.FindStringSubmatch(text); m != nil {
		return []byte(strings.TrimSpace(m[1])), nil
	}
	return nil, ErrNoJSON
}
