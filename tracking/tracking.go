// Package tracking owns the per-session state machine that turns minimap
// crops into a lap-position percentage, one frame at a time.
package tracking

import (
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"lapmeter/position"
	"lapmeter/track"
	"lapmeter/types"
	"lapmeter/vision"
)

// Session tracks one car across one video session. It is not safe for
// concurrent use; frames must be processed in monotonic time order because
// the last validated position and the lap-reset flag are sequential state.
type Session struct {
	cfg types.Config
	log zerolog.Logger

	path      *track.Path
	calc      *position.Calculator
	validator position.Validator

	ready          bool
	lastPosition   float64
	lapJustStarted bool

	// geometricAnchor remembers the locator's start index, -1 when the
	// locator found nothing. A lap reset overrides it permanently.
	geometricAnchor int
}

// NewSession creates a session with the given configuration. The session
// stays in the not-ready state until Build succeeds.
func NewSession(cfg types.Config) *Session {
	return &Session{
		cfg:             cfg,
		log:             zerolog.Nop(),
		validator:       position.NewValidator(cfg.Validation),
		geometricAnchor: -1,
	}
}

// SetLogger attaches a logger for degraded-mode and build diagnostics.
func (s *Session) SetLogger(log zerolog.Logger) {
	s.log = log
}

// Ready reports whether a valid path has been built. Until then every
// per-frame call returns 0.
func (s *Session) Ready() bool {
	return s.ready
}

// Path exposes the current route, for overlay rendering. Nil until ready.
func (s *Session) Path() *track.Path {
	return s.path
}

// LastPosition returns the most recent validated output.
func (s *Session) LastPosition() float64 {
	return s.lastPosition
}

// Build reconstructs the lap route from a batch of sampled crops, locates
// the start/finish spike and excises it. A failed build never regresses a
// ready session: the previous path is kept and the error reported.
func (s *Session) Build(frames []gocv.Mat) error {
	p, err := track.Build(frames, s.cfg.Path)
	if err != nil {
		if s.ready {
			s.log.Warn().Err(err).Msg("rebuild rejected, keeping previous path")
		}
		return err
	}

	if line, ok := track.LocateStartLine(p, s.cfg.Locator); ok {
		dev := track.Deviations(p.Points, s.cfg.Locator.ChordWindow)
		if trimmed, cleaned := track.RemoveSpike(p.Points, dev, line.Index, s.cfg.Cleaner); cleaned {
			p = track.NewPath(trimmed)
		} else {
			s.log.Warn().Int("points", p.Len()).Msg("spike removal failed, keeping uncleaned path")
		}
		// The spike points are gone, so re-resolve the anchor on the
		// trimmed polyline.
		p.StartIndex = p.NearestIndex(line.Point)
		s.geometricAnchor = p.StartIndex
		s.log.Info().
			Int("start_index", p.StartIndex).
			Float64("confidence", line.Confidence).
			Msg("start line located")
	} else {
		s.geometricAnchor = -1
		// Degraded mode: positions are relative to the contour origin
		// until an external lap reset establishes the anchor.
		s.log.Warn().Msg("no start line found, anchoring at contour origin")
	}

	s.path = p
	s.calc = position.NewCalculator(p, s.cfg.Validation)
	s.ready = true
	s.lastPosition = 0
	s.log.Info().
		Int("points", p.Len()).
		Float64("length_px", p.TotalLength).
		Msg("track path built")
	return nil
}

// ResetForNewLap must be called exactly once per externally detected lap
// transition, before the first frame of the new lap. The next successful
// marker detection becomes the new arc-length zero and that frame reports
// exactly 0, so every lap starts at 0% wherever the geometric start line
// was thought to be.
func (s *Session) ResetForNewLap() {
	s.lapJustStarted = true
}

// ProcessFrame processes one minimap crop and returns the lap percentage.
// Detection misses hold the last value rather than guess; a not-ready
// session returns 0. No failure here is fatal to the caller.
func (s *Session) ProcessFrame(frame gocv.Mat) float64 {
	if !s.ready {
		return 0
	}

	marker, ok := vision.DetectMarker(frame, s.cfg.Marker)

	if s.lapJustStarted {
		if !ok {
			return s.lastPosition
		}
		s.path.StartIndex = s.path.NearestIndex(marker)
		s.lapJustStarted = false
		s.lastPosition = 0
		s.log.Debug().
			Int("start_index", s.path.StartIndex).
			Msg("lap anchor reset to marker position")
		return 0
	}

	if !ok {
		return s.lastPosition
	}

	raw := s.calc.Calculate(marker, s.lastPosition)
	validated := s.validator.Validate(raw, s.lastPosition)
	s.lastPosition = validated
	return validated
}

// Process wraps ProcessFrame and pairs the output with its frame index and
// timestamp for downstream consumers.
func (s *Session) Process(frame gocv.Mat, frameIndex int, seconds float64) types.Measurement {
	return types.Measurement{
		Frame:    frameIndex,
		Seconds:  seconds,
		Position: s.ProcessFrame(frame),
		Ready:    s.ready,
	}
}
