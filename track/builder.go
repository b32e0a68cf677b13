package track

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"lapmeter/types"
	"lapmeter/vision"
)

// Path reconstruction failure classes. All of them leave the caller
// without a usable route; see the session state machine.
var (
	ErrTooFewFrames  = errors.New("track: not enough valid sample frames")
	ErrNoRoute       = errors.New("track: no connected route component found")
	ErrRouteTooSmall = errors.New("track: extracted contour below minimum size")
)

// Build reconstructs the lap route from a batch of minimap crops.
//
// The route line is static across frames while the marker and UI glow move,
// so per-pixel frequency voting separates route evidence from transients.
// The voted mask is dilated to bridge marker occlusion gaps, reduced to its
// largest connected component to drop UI glyphs, eroded back toward the
// original thickness and intersected with the raw vote so no pixel without
// direct evidence survives. The path is the external contour of the result.
func Build(frames []gocv.Mat, cfg types.PathConfig) (*Path, error) {
	if len(frames) < cfg.MinSampleFrames {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrTooFewFrames, len(frames), cfg.MinSampleFrames)
	}

	rows := frames[0].Rows()
	cols := frames[0].Cols()

	acc := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV32F)
	defer acc.Close()

	count := 0
	for _, frame := range frames {
		if frame.Empty() || frame.Rows() != rows || frame.Cols() != cols {
			continue
		}
		mask := vision.Mask(frame, cfg.Band)
		scratch := gocv.NewMat()
		mask.ConvertTo(&scratch, gocv.MatTypeCV32F)
		gocv.Add(acc, scratch, &acc)
		scratch.Close()
		mask.Close()
		count++
	}
	if count < cfg.MinSampleFrames {
		return nil, fmt.Errorf("%w: got %d valid of %d, need %d", ErrTooFewFrames, count, len(frames), cfg.MinSampleFrames)
	}

	// Mask pixels accumulate 255 per "on" frame, so the frequency cut sits
	// at threshold*255*count.
	raw := gocv.NewMat()
	defer raw.Close()
	gocv.Threshold(acc, &raw, float32(cfg.FreqThreshold*255*float64(count)), 255, gocv.ThresholdBinary)

	raw8 := gocv.NewMat()
	defer raw8.Close()
	raw.ConvertTo(&raw8, gocv.MatTypeCV8U)

	dilateKernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(cfg.DilateKernel, cfg.DilateKernel))
	defer dilateKernel.Close()
	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(raw8, &dilated, dilateKernel)

	components := gocv.FindContours(dilated, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer components.Close()
	if components.Size() == 0 {
		return nil, ErrNoRoute
	}

	largest := 0
	largestArea := gocv.ContourArea(components.At(0))
	for i := 1; i < components.Size(); i++ {
		if area := gocv.ContourArea(components.At(i)); area > largestArea {
			largestArea = area
			largest = i
		}
	}

	selected := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8U)
	defer selected.Close()
	_ = gocv.DrawContours(&selected, components, largest, color.RGBA{R: 255, G: 255, B: 255}, -1)

	erodeKernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(cfg.ErodeKernel, cfg.ErodeKernel))
	defer erodeKernel.Close()
	eroded := gocv.NewMat()
	defer eroded.Close()
	gocv.Erode(selected, &eroded, erodeKernel)

	cleaned := gocv.NewMat()
	defer cleaned.Close()
	gocv.BitwiseAnd(eroded, raw8, &cleaned)

	// ChainApproxNone keeps every boundary pixel so arc length stays dense.
	contours := gocv.FindContours(cleaned, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()
	if contours.Size() == 0 {
		return nil, ErrNoRoute
	}

	best := 0
	bestArea := gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > bestArea {
			bestArea = area
			best = i
		}
	}
	points := contours.At(best).ToPoints()

	if len(points) < cfg.MinPoints || bestArea < cfg.MinArea {
		return nil, fmt.Errorf("%w: %d points, area %.0f", ErrRouteTooSmall, len(points), bestArea)
	}
	if bbox := boundingBox(points); bbox.Dx() < 50 || bbox.Dy() < 50 {
		return nil, fmt.Errorf("%w: bounding box %v", ErrRouteTooSmall, bbox)
	}

	return NewPath(points), nil
}

func boundingBox(points []image.Point) image.Rectangle {
	box := image.Rectangle{Min: points[0], Max: points[0]}
	for _, pt := range points[1:] {
		if pt.X < box.Min.X {
			box.Min.X = pt.X
		}
		if pt.Y < box.Min.Y {
			box.Min.Y = pt.Y
		}
		if pt.X > box.Max.X {
			box.Max.X = pt.X
		}
		if pt.Y > box.Max.Y {
			box.Max.Y = pt.Y
		}
	}
	return box
}
