package track

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"lapmeter/types"
)

// syntheticFrame draws a 200x200 minimap: white route square, optional red
// marker dot on top of it.
func syntheticFrame(marker *image.Point) gocv.Mat {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 200, 200, gocv.MatTypeCV8UC3)
	_ = gocv.Rectangle(&frame, image.Rect(40, 40, 160, 160), color.RGBA{R: 255, G: 255, B: 255}, 2)
	if marker != nil {
		_ = gocv.Circle(&frame, *marker, 3, color.RGBA{R: 255}, -1)
	}
	return frame
}

// perimeterPoint maps t in [0,1) onto the route square's perimeter,
// clockwise from the top-left corner.
func perimeterPoint(t float64) image.Point {
	const x0, y0, side = 40, 40, 120
	d := int(t * 4 * side)
	d %= 4 * side
	switch {
	case d < side:
		return image.Pt(x0+d, y0)
	case d < 2*side:
		return image.Pt(x0+side, y0+d-side)
	case d < 3*side:
		return image.Pt(x0+side-(d-2*side), y0+side)
	default:
		return image.Pt(x0, y0+side-(d-3*side))
	}
}

func closeAll(frames []gocv.Mat) {
	for i := range frames {
		frames[i].Close()
	}
}

func TestBuildTooFewFrames(t *testing.T) {
	frames := make([]gocv.Mat, 3)
	for i := range frames {
		frames[i] = syntheticFrame(nil)
	}
	defer closeAll(frames)

	_, err := Build(frames, types.DefaultPathConfig())
	assert.ErrorIs(t, err, ErrTooFewFrames)
}

func TestBuildFromSyntheticFrames(t *testing.T) {
	frames := make([]gocv.Mat, 50)
	for i := range frames {
		if i%10 == 9 {
			// Marker missing in 10% of the sampled frames.
			frames[i] = syntheticFrame(nil)
			continue
		}
		pt := perimeterPoint(float64(i) / 50)
		frames[i] = syntheticFrame(&pt)
	}
	defer closeAll(frames)

	p, err := Build(frames, types.DefaultPathConfig())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, p.Len(), 50)
	// The analytic route perimeter is 480; the external contour of the
	// 2 px line lands slightly outside it.
	assert.InDelta(t, 480, p.TotalLength, 0.05*480)
	assert.InDelta(t, 100, float64(p.Centroid.X), 5)
	assert.InDelta(t, 100, float64(p.Centroid.Y), 5)
}

func TestBuildRejectsEmptyScene(t *testing.T) {
	frames := make([]gocv.Mat, 12)
	for i := range frames {
		frames[i] = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 200, 200, gocv.MatTypeCV8UC3)
	}
	defer closeAll(frames)

	_, err := Build(frames, types.DefaultPathConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoRoute) || errors.Is(err, ErrRouteTooSmall))
}
