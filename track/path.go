// Package track reconstructs the lap route from sampled minimap frames and
// provides the geometry used to turn a marker position into lap progress.
package track

import (
	"image"

	"gonum.org/v1/gonum/stat"

	"lapmeter/utils"
)

// Path is an ordered closed polyline: the first and last points are
// implicitly connected. Points come from the external contour of the
// reconstructed route mask, so no self-intersection is assumed.
type Path struct {
	Points      []image.Point
	TotalLength float64
	Centroid    image.Point
	// StartIndex is the arc-length zero anchor. It is the only field that
	// may be reassigned after construction, on lap boundaries.
	StartIndex int
}

// NewPath wraps an ordered point sequence and computes its metadata.
func NewPath(points []image.Point) *Path {
	p := &Path{Points: points}
	p.recompute()
	return p
}

func (p *Path) recompute() {
	n := len(p.Points)
	if n == 0 {
		p.TotalLength = 0
		p.Centroid = image.Point{}
		return
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	total := 0.0
	for i, pt := range p.Points {
		xs[i] = float64(pt.X)
		ys[i] = float64(pt.Y)
		total += utils.Dist(pt, p.Points[(i+1)%n])
	}

	p.TotalLength = total
	p.Centroid = image.Pt(int(stat.Mean(xs, nil)), int(stat.Mean(ys, nil)))
}

// Len returns the number of points on the path.
func (p *Path) Len() int {
	return len(p.Points)
}

// NearestIndex returns the index of the path point closest to pt.
// Ties go to the earliest index in scan order.
func (p *Path) NearestIndex(pt image.Point) int {
	best := 0
	bestSq := -1
	for i, candidate := range p.Points {
		sq := utils.DistSq(pt, candidate)
		if bestSq < 0 || sq < bestSq {
			bestSq = sq
			best = i
		}
	}
	return best
}

// ArcLength walks forward along the polyline from index from to index to,
// wrapping through the closing edge when to precedes from in array order.
func (p *Path) ArcLength(from, to int) float64 {
	n := len(p.Points)
	if n == 0 || from == to {
		return 0
	}

	from = utils.WrapIndex(from, n)
	to = utils.WrapIndex(to, n)

	length := 0.0
	for i := from; i != to; i = (i + 1) % n {
		length += utils.Dist(p.Points[i], p.Points[(i+1)%n])
	}
	return length
}
