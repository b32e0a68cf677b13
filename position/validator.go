package position

import (
	"lapmeter/types"
	"lapmeter/utils"
)

// Validator post-processes one raw percentage reading against the previous
// validated output. Implementations must be side-effect free.
type Validator interface {
	Validate(raw, last float64) float64
}

// NewValidator returns the strategy selected by cfg.Mode. The raw
// passthrough exists as an explicit diagnostic escape hatch so the
// production smoothing can never be disabled by an overlooked code branch.
func NewValidator(cfg types.ValidationConfig) Validator {
	if cfg.Mode == types.ValidationRaw {
		return RawPassthrough{}
	}
	return SmoothedForwardOnly{cfg: cfg}
}

// RawPassthrough returns the raw reading unmodified apart from clamping.
type RawPassthrough struct{}

// Validate implements Validator.
func (RawPassthrough) Validate(raw, _ float64) float64 {
	return utils.Clamp(raw, 0, 100)
}

// SmoothedForwardOnly is the production policy: backward fluctuations are
// absorbed, forward movement is smoothed with an EMA, and a catch-up snap
// keeps the smoothed signal from lagging too far behind the raw one.
type SmoothedForwardOnly struct {
	cfg types.ValidationConfig
}

// Validate implements Validator.
//
// The nearest-point search is exact but not continuous: a one-pixel
// detection shift can select a different path index, so a raw reading
// slightly behind last is jitter, not movement, and is rejected.
func (v SmoothedForwardOnly) Validate(raw, last float64) float64 {
	// A full-scale reading is the lap-completion snap from the calculator
	// and must not be damped into the next lap.
	if raw >= 100 {
		return 100
	}
	if raw < last {
		return last
	}

	smoothed := v.cfg.Alpha*raw + (1-v.cfg.Alpha)*last
	if raw-smoothed > v.cfg.LagBound {
		smoothed = raw - v.cfg.CatchUpMargin
	}
	if smoothed > last+v.cfg.MaxJumpPerFrame {
		smoothed = last + v.cfg.MaxJumpPerFrame
	}
	return utils.Clamp(smoothed, 0, 100)
}
