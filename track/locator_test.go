package track

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapmeter/types"
)

func circlePath(cx, cy int, r float64, n int) []image.Point {
	pts := make([]image.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = image.Pt(cx+int(math.Round(r*math.Cos(a))), cy+int(math.Round(r*math.Sin(a))))
	}
	return pts
}

func TestLocateStartLine(t *testing.T) {
	cfg := types.DefaultLocatorConfig()

	t.Run("finds a planted top-edge spike", func(t *testing.T) {
		pts, first := spikedSquare(40, 40, 120, 60, 20)
		p := NewPath(pts)

		line, ok := LocateStartLine(p, cfg)
		require.True(t, ok)
		assert.GreaterOrEqual(t, line.Index, first)
		assert.Less(t, line.Index, first+40)
		assert.Less(t, line.Point.Y, 40, "spike points sit above the top edge")
		assert.Greater(t, line.Confidence, 0.0)
		assert.LessOrEqual(t, line.Confidence, 1.0)
	})

	t.Run("rejects a small smooth circle on absolute deviation", func(t *testing.T) {
		// r=40 with a 20-index chord window deviates ~2.4 px, under the
		// 3 px floor.
		p := NewPath(circlePath(100, 100, 40, 360))
		_, ok := LocateStartLine(p, cfg)
		assert.False(t, ok)
	})

	t.Run("rejects a large smooth circle on prominence", func(t *testing.T) {
		// r=100 deviates ~6 px, over the floor, but uniformly: no point
		// stands out from its neighborhood.
		p := NewPath(circlePath(150, 150, 100, 360))
		_, ok := LocateStartLine(p, cfg)
		assert.False(t, ok)
	})

	t.Run("empty path", func(t *testing.T) {
		_, ok := LocateStartLine(NewPath(nil), cfg)
		assert.False(t, ok)
	})
}
