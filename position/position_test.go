package position

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapmeter/track"
	"lapmeter/types"
)

// squarePath walks a 40 px square clockwise from the top-left corner, one
// pixel per point: 160 points, analytic length 160.
func squarePath() []image.Point {
	const x0, y0, side = 10, 10, 40
	pts := make([]image.Point, 0, 4*side)
	for i := 0; i < side; i++ {
		pts = append(pts, image.Pt(x0+i, y0))
	}
	for i := 0; i < side; i++ {
		pts = append(pts, image.Pt(x0+side, y0+i))
	}
	for i := 0; i < side; i++ {
		pts = append(pts, image.Pt(x0+side-i, y0+side))
	}
	for i := 0; i < side; i++ {
		pts = append(pts, image.Pt(x0, y0+side-i))
	}
	return pts
}

func TestCalculate(t *testing.T) {
	cfg := types.DefaultValidationConfig()
	p := track.NewPath(squarePath())
	calc := NewCalculator(p, cfg)

	t.Run("quarter lap", func(t *testing.T) {
		// (50,10) is the top-right corner, index 40 of 160.
		assert.InDelta(t, 25.0, calc.Calculate(image.Pt(50, 10), 0), 1e-9)
	})

	t.Run("nearest-point snap off the line", func(t *testing.T) {
		assert.InDelta(t, 25.0, calc.Calculate(image.Pt(53, 9), 0), 1.0)
	})

	t.Run("wraparound before start index", func(t *testing.T) {
		p2 := track.NewPath(squarePath())
		p2.StartIndex = 150
		c2 := NewCalculator(p2, cfg)
		// Index 10 sits 10 points past the closing edge: arc 20 of 160.
		assert.InDelta(t, 12.5, c2.Calculate(image.Pt(20, 10), 0), 1e-9)
	})

	t.Run("lap completion snaps to 100", func(t *testing.T) {
		// Late in the lap a wrapped reading of ~2.5 means the marker just
		// crossed the line.
		assert.InDelta(t, 100.0, calc.Calculate(image.Pt(14, 10), 95), 1e-9)
	})

	t.Run("early lap small reading passes through", func(t *testing.T) {
		assert.InDelta(t, 2.5, calc.Calculate(image.Pt(14, 10), 50), 1e-9)
	})

	t.Run("nil path", func(t *testing.T) {
		c := NewCalculator(nil, cfg)
		assert.Equal(t, 0.0, c.Calculate(image.Pt(1, 1), 0))
	})
}

func TestSmoothedForwardOnly(t *testing.T) {
	v := NewValidator(types.DefaultValidationConfig())
	require.IsType(t, SmoothedForwardOnly{}, v)

	t.Run("rejects backward jitter", func(t *testing.T) {
		assert.Equal(t, 20.0, v.Validate(19.9, 20.0))
	})

	t.Run("damps forward jump with catch-up", func(t *testing.T) {
		// smoothed = 0.3*30.8 + 0.7*30 = 30.24; the 0.56 lag exceeds the
		// bound, so the output snaps to raw - margin.
		assert.InDelta(t, 30.6, v.Validate(30.8, 30.0), 1e-9)
	})

	t.Run("small step stays on the EMA", func(t *testing.T) {
		assert.InDelta(t, 30.09, v.Validate(30.3, 30.0), 1e-9)
	})

	t.Run("caps per-frame forward movement", func(t *testing.T) {
		assert.InDelta(t, 31.0, v.Validate(40.0, 30.0), 1e-9)
	})

	t.Run("passes the completion snap through", func(t *testing.T) {
		assert.Equal(t, 100.0, v.Validate(100.0, 95.0))
	})
}

func TestRawPassthrough(t *testing.T) {
	cfg := types.DefaultValidationConfig()
	cfg.Mode = types.ValidationRaw
	v := NewValidator(cfg)
	require.IsType(t, RawPassthrough{}, v)

	assert.Equal(t, 19.9, v.Validate(19.9, 20.0), "raw mode keeps backward jitter")
	assert.Equal(t, 100.0, v.Validate(150.0, 0))
	assert.Equal(t, 0.0, v.Validate(-3.0, 0))
}
