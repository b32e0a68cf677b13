package types

// ValidationMode selects how raw per-frame positions are post-processed.
type ValidationMode string

const (
	// ValidationSmoothed applies the forward-only smoothing policy.
	ValidationSmoothed ValidationMode = "smoothed"
	// ValidationRaw bypasses validation entirely. Diagnostic use only.
	ValidationRaw ValidationMode = "raw"
)

// ColorBand is an inclusive HSV range in OpenCV convention (H 0-179).
type ColorBand struct {
	LowH  float64
	LowS  float64
	LowV  float64
	HighH float64
	HighS float64
	HighV float64
}

// PathBand returns the band matching the minimap route line: bright,
// nearly unsaturated pixels at any hue.
func PathBand() ColorBand {
	return ColorBand{
		LowH:  0,
		LowS:  0,
		LowV:  180,
		HighH: 179,
		HighS: 60,
		HighV: 255,
	}
}

// MarkerBands returns the two red sub-ranges for the car marker. Red sits
// on the hue wraparound point, so both halves must be masked and combined.
func MarkerBands() []ColorBand {
	return []ColorBand{
		{LowH: 0, LowS: 100, LowV: 100, HighH: 10, HighS: 255, HighV: 255},
		{LowH: 170, LowS: 100, LowV: 100, HighH: 179, HighS: 255, HighV: 255},
	}
}

// PathConfig controls track path reconstruction from a sampled frame batch.
type PathConfig struct {
	// FreqThreshold is the per-pixel on-fraction above which a pixel counts
	// as route evidence. Scene-dependent calibration input.
	FreqThreshold   float64
	MinSampleFrames int
	DilateKernel    int
	ErodeKernel     int
	MinPoints       int
	MinArea         float64
	Band            ColorBand
}

// DefaultPathConfig returns the default path reconstruction configuration.
func DefaultPathConfig() PathConfig {
	return PathConfig{
		FreqThreshold:   0.45,
		MinSampleFrames: 10,
		DilateKernel:    5,
		ErodeKernel:     5,
		MinPoints:       50,
		MinArea:         100,
		Band:            PathBand(),
	}
}

// MarkerConfig controls per-frame car marker detection.
type MarkerConfig struct {
	Bands []ColorBand
	// MinArea and MaxArea bound the plausible marker contour size in px².
	MinArea float64
	MaxArea float64
}

// DefaultMarkerConfig returns the default marker detection configuration.
func DefaultMarkerConfig() MarkerConfig {
	return MarkerConfig{
		Bands:   MarkerBands(),
		MinArea: 3,
		MaxArea: 400,
	}
}

// LocatorConfig controls geometric start/finish line detection.
type LocatorConfig struct {
	// ChordWindow is the half-width, in indices, of the chord used for the
	// smoothness deviation measure.
	ChordWindow int
	// NeighborWindow is the half-width of the prominence neighborhood.
	NeighborWindow int
	// SearchBand restricts the search to points within this many pixels of
	// the path's minimum y coordinate.
	SearchBand    int
	MinDeviation  float64
	MinProminence float64
}

// DefaultLocatorConfig returns the default start/finish locator configuration.
func DefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{
		ChordWindow:    20,
		NeighborWindow: 15,
		SearchBand:     30,
		MinDeviation:   3,
		MinProminence:  1.2,
	}
}

// CleanerConfig controls spike excision on closed polylines.
type CleanerConfig struct {
	// MaxSpan bounds the outward scan from the spike peak, per direction.
	MaxSpan int
	// PeakFraction is the fraction of the peak deviation above which a
	// neighboring point still belongs to the spike run.
	PeakFraction float64
	// MinPoints is the minimum polyline length after excision; cleaning
	// fails rather than producing a shorter result.
	MinPoints int
}

// DefaultCleanerConfig returns the default spike cleaner configuration.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		MaxSpan:      30,
		PeakFraction: 0.5,
		MinPoints:    50,
	}
}

// ValidationConfig controls the per-frame smoothing policy.
type ValidationConfig struct {
	Mode ValidationMode
	// Alpha is the EMA weight on the raw reading.
	Alpha           float64
	MaxJumpPerFrame float64
	// LagBound is the raw-vs-smoothed gap beyond which the output snaps
	// forward to raw minus CatchUpMargin instead of drifting behind.
	LagBound      float64
	CatchUpMargin float64
	// CompletionThreshold and CompletionDrop define the lap-completion
	// wraparound rule: above the threshold, a drop larger than
	// CompletionDrop reports 100 instead of the small wrapped value.
	CompletionThreshold float64
	CompletionDrop      float64
}

// DefaultValidationConfig returns the default validation configuration.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		Mode:                ValidationSmoothed,
		Alpha:               0.3,
		MaxJumpPerFrame:     1.0,
		LagBound:            0.5,
		CatchUpMargin:       0.2,
		CompletionThreshold: 90,
		CompletionDrop:      3,
	}
}

// Config aggregates the configuration for a complete tracker session.
type Config struct {
	Path       PathConfig
	Marker     MarkerConfig
	Locator    LocatorConfig
	Cleaner    CleanerConfig
	Validation ValidationConfig
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() Config {
	return Config{
		Path:       DefaultPathConfig(),
		Marker:     DefaultMarkerConfig(),
		Locator:    DefaultLocatorConfig(),
		Cleaner:    DefaultCleanerConfig(),
		Validation: DefaultValidationConfig(),
	}
}

// Measurement pairs one frame's position output with its timestamp for
// downstream consumers.
type Measurement struct {
	Frame    int
	Seconds  float64
	Position float64
	Ready    bool
}
