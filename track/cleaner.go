package track

import (
	"image"

	"lapmeter/types"
	"lapmeter/utils"
)

// RemoveSpike excises the contiguous run of points around peak whose
// deviation stays above PeakFraction of the peak deviation, scanning
// outward at most MaxSpan indices in each direction. It is used to cut the
// start/finish spike out of the route and works on any closed polyline.
//
// When the trimmed result would fall below MinPoints the original slice is
// returned unchanged with ok == false; callers keep the uncleaned path.
func RemoveSpike(points []image.Point, dev []float64, peak int, cfg types.CleanerConfig) ([]image.Point, bool) {
	n := len(points)
	if n == 0 || len(dev) != n {
		return points, false
	}

	peak = utils.WrapIndex(peak, n)
	threshold := cfg.PeakFraction * dev[peak]

	remove := make([]bool, n)
	remove[peak] = true
	removed := 1

	for step := 1; step <= cfg.MaxSpan; step++ {
		i := utils.WrapIndex(peak-step, n)
		if dev[i] <= threshold || remove[i] {
			break
		}
		remove[i] = true
		removed++
	}
	for step := 1; step <= cfg.MaxSpan; step++ {
		i := utils.WrapIndex(peak+step, n)
		if dev[i] <= threshold || remove[i] {
			break
		}
		remove[i] = true
		removed++
	}

	if n-removed < cfg.MinPoints {
		return points, false
	}

	trimmed := make([]image.Point, 0, n-removed)
	for i, pt := range points {
		if !remove[i] {
			trimmed = append(trimmed, pt)
		}
	}
	return trimmed, true
}
