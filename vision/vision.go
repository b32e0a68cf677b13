// Package vision turns minimap crops into binary color masks and detects
// the car marker. All detection runs in HSV space, which is more robust to
// the game's lighting variation than RGB pixel matching.
package vision

import (
	"image"

	"gocv.io/x/gocv"

	"lapmeter/types"
)

// Mask returns a binary mask of pixels whose HSV color falls inside band.
// The caller owns the returned Mat and must close it.
func Mask(img gocv.Mat, band types.ColorBand) gocv.Mat {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	lower := gocv.NewScalar(band.LowH, band.LowS, band.LowV, 0)
	upper := gocv.NewScalar(band.HighH, band.HighS, band.HighV, 0)
	gocv.InRangeWithScalar(hsv, lower, upper, &mask)
	return mask
}

// CombinedMask ORs the masks of several bands together. Used for colors
// that straddle the hue wraparound, like the red marker.
func CombinedMask(img gocv.Mat, bands []types.ColorBand) gocv.Mat {
	if len(bands) == 0 {
		return gocv.NewMat()
	}

	combined := Mask(img, bands[0])
	for _, band := range bands[1:] {
		m := Mask(img, band)
		gocv.BitwiseOr(combined, m, &combined)
		m.Close()
	}
	return combined
}

// DetectMarker looks for the car marker in one minimap crop. It returns
// the center of the largest marker-colored contour whose area falls inside
// the plausible size band, or false when nothing qualifies.
func DetectMarker(img gocv.Mat, cfg types.MarkerConfig) (image.Point, bool) {
	if img.Empty() {
		return image.Point{}, false
	}

	mask := CombinedMask(img, cfg.Bands)
	defer mask.Close()

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	bestIndex := -1
	var bestArea float64
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area < cfg.MinArea || area > cfg.MaxArea {
			continue
		}
		if area > bestArea {
			bestArea = area
			bestIndex = i
		}
	}

	if bestIndex < 0 {
		return image.Point{}, false
	}

	rect := gocv.BoundingRect(contours.At(bestIndex))
	center := image.Pt(rect.Min.X+rect.Dx()/2, rect.Min.Y+rect.Dy()/2)
	return center, true
}
