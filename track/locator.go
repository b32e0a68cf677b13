package track

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"lapmeter/types"
	"lapmeter/utils"
)

// StartLine is a geometrically detected start/finish anchor.
type StartLine struct {
	Index      int
	Point      image.Point
	Confidence float64
}

// Deviations computes the smoothness deviation of every point: its
// distance to the chord connecting the points window indices before and
// after it, wrapping around the closed polyline. Points on a gentle curve
// score low; a perpendicular protrusion scores high at its tip.
func Deviations(points []image.Point, window int) []float64 {
	n := len(points)
	dev := make([]float64, n)
	if n == 0 || window <= 0 {
		return dev
	}

	for i := range points {
		a := points[utils.WrapIndex(i-window, n)]
		b := points[utils.WrapIndex(i+window, n)]
		dev[i] = utils.PointSegmentDist(points[i], a, b)
	}
	return dev
}

// LocateStartLine searches for the start/finish marker spike. The marker
// paints a short line perpendicular to the route, which shows up as the
// point of maximum chord deviation near the top of the minimap crop.
func LocateStartLine(p *Path, cfg types.LocatorConfig) (StartLine, bool) {
	n := p.Len()
	if n == 0 {
		return StartLine{}, false
	}

	dev := Deviations(p.Points, cfg.ChordWindow)

	minY := p.Points[0].Y
	for _, pt := range p.Points {
		if pt.Y < minY {
			minY = pt.Y
		}
	}

	// Searching the whole route would hit false positives on hairpins; the
	// marker is expected near the top of the crop in the game's layout.
	best := -1
	bestDev := 0.0
	for i, pt := range p.Points {
		if pt.Y > minY+cfg.SearchBand {
			continue
		}
		if dev[i] > bestDev {
			bestDev = dev[i]
			best = i
		}
	}

	if best < 0 || bestDev < cfg.MinDeviation {
		return StartLine{}, false
	}

	neighborhood := make([]float64, 0, 2*cfg.NeighborWindow+1)
	for off := -cfg.NeighborWindow; off <= cfg.NeighborWindow; off++ {
		neighborhood = append(neighborhood, dev[utils.WrapIndex(best+off, n)])
	}
	mean := stat.Mean(neighborhood, nil)
	if mean <= 0 {
		return StartLine{}, false
	}

	prominence := bestDev / mean
	if prominence <= cfg.MinProminence {
		return StartLine{}, false
	}

	confidence := math.Min(1, (bestDev/15)*(prominence/2.5))
	return StartLine{Index: best, Point: p.Points[best], Confidence: confidence}, true
}
