// Package position maps a marker pixel position onto an arc-length lap
// percentage and applies the per-frame validation policy that keeps the
// signal monotonic despite detection jitter.
package position

import (
	"image"

	"lapmeter/track"
	"lapmeter/types"
	"lapmeter/utils"
)

// Calculator converts marker positions into lap percentages against a
// reconstructed path. Linear search is fine here: paths run a few hundred
// to a few thousand points and there is no hard real-time deadline.
type Calculator struct {
	Path *track.Path

	completionThreshold float64
	completionDrop      float64
}

// NewCalculator returns a calculator bound to p. The validation config
// supplies the lap-completion wraparound rule constants.
func NewCalculator(p *track.Path, cfg types.ValidationConfig) *Calculator {
	return &Calculator{
		Path:                p,
		completionThreshold: cfg.CompletionThreshold,
		completionDrop:      cfg.CompletionDrop,
	}
}

// Calculate returns the lap percentage for one marker observation.
// last is the previous frame's position, needed for the lap-completion
// rule: late in the lap a sudden drop means the marker just crossed the
// finish line, so 100 is reported instead of the small wrapped value.
func (c *Calculator) Calculate(pt image.Point, last float64) float64 {
	if c.Path == nil || c.Path.Len() == 0 || c.Path.TotalLength <= 0 {
		return 0
	}

	idx := c.Path.NearestIndex(pt)
	arc := c.Path.ArcLength(c.Path.StartIndex, idx)
	pct := utils.Clamp(100*arc/c.Path.TotalLength, 0, 100)

	if last > c.completionThreshold && pct < last-c.completionDrop {
		return 100
	}
	return pct
}
