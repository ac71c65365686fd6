package cluster

// Config holds the pixel thresholds used by the merge predicate.
type Config struct {
	MaxHorizontalGap             int `json:"max_horizontal_gap" yaml:"max_horizontal_gap"`
	MaxVerticalGap               int `json:"max_vertical_gap" yaml:"max_vertical_gap"`
	HorizontalAlignmentTolerance int `json:"horizontal_alignment_tolerance" yaml:"horizontal_alignment_tolerance"`
	VerticalAlignmentTolerance   int `json:"vertical_alignment_tolerance" yaml:"vertical_alignment_tolerance"`
}

// DefaultConfig returns thresholds tuned for images around 1000px on a side.
func DefaultConfig() Config {
	return Config{
		MaxHorizontalGap:             80,
		MaxVerticalGap:               40,
		HorizontalAlignmentTolerance: 25,
		VerticalAlignmentTolerance:   40,
	}
}

// AdaptiveConfig scales the defaults for larger images. Each scale is
// max(1, dim/1000); gaps along an axis scale with that axis, and alignment
// tolerances scale with the perpendicular one. Results are truncated.
func AdaptiveConfig(width, height int) Config {
	base := DefaultConfig()
	ws := max(1.0, float64(width)/1000.0)
	hs := max(1.0, float64(height)/1000.0)
	return Config{
		MaxHorizontalGap:             int(float64(base.MaxHorizontalGap) * ws),
		MaxVerticalGap:               int(float64(base.MaxVerticalGap) * hs),
		HorizontalAlignmentTolerance: int(float64(base.HorizontalAlignmentTolerance) * hs),
		VerticalAlignmentTolerance:   int(float64(base.VerticalAlignmentTolerance) * ws),
	}
}

// WithOverrides returns c with every positive field of o applied on top.
func (c Config) WithOverrides(o Config) Config {
	if o.MaxHorizontalGap > 0 {
		c.MaxHorizontalGap = o.MaxHorizontalGap
	}
	if o.MaxVerticalGap > 0 {
		c.MaxVerticalGap = o.MaxVerticalGap
	}
	if o.HorizontalAlignmentTolerance > 0 {
		c.HorizontalAlignmentTolerance = o.HorizontalAlignmentTolerance
	}
	if o.VerticalAlignmentTolerance > 0 {
		c.VerticalAlignmentTolerance = o.VerticalAlignmentTolerance
	}
	return c
}
