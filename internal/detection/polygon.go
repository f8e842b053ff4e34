package detection

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
)

func toR2(p image.Point) r2.Point {
	return r2.Point{X: float64(p.X), Y: float64(p.Y)}
}

// ArcLength is the Euclidean length of the closed polyline through c. It is
// the perimeter used for circularity and for the polygon tolerance.
//
// Repeated points contribute nothing; a contour with fewer than two distinct
// points has an arc length of zero.
func ArcLength(c Contour) float64 {
	n := len(c)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += toR2(c[(i+1)%n]).Sub(toR2(c[i])).Norm()
	}
	return total
}

// Area is the absolute shoelace area of the closed polygon through c.
func Area(c Contour) float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += toR2(c[i]).Cross(toR2(c[(i+1)%n]))
	}
	return math.Abs(sum) / 2
}

// Circularity returns 4πA/P², 1.0 for a perfect disc. The boolean is false
// when the perimeter is zero and the ratio is undefined.
func Circularity(area, perimeter float64) (float64, bool) {
	if perimeter <= 0 {
		return 0, false
	}
	return 4 * math.Pi * area / (perimeter * perimeter), true
}

// ApproxPolygon simplifies the closed contour c with the Douglas-Peucker
// algorithm. No contour point lies farther than epsilon from the returned
// polygon.
//
// The closed curve is split at two anchors, the point farthest from c[0] and
// the point farthest from that one, and each half is simplified on its own.
// Vertices are returned in contour order.
func ApproxPolygon(c Contour, epsilon float64) []image.Point {
	n := len(c)
	if n < 3 {
		return append([]image.Point(nil), c...)
	}

	a := farthestFrom(c, 0)
	b := farthestFrom(c, a)
	if a == b {
		return []image.Point{c[a]}
	}

	keep := make([]bool, n)
	keep[a] = true
	keep[b] = true
	simplifyChain(c, a, b, epsilon, keep)
	simplifyChain(c, b, a, epsilon, keep)

	poly := make([]image.Point, 0, 8)
	for i, k := range keep {
		if k {
			poly = append(poly, c[i])
		}
	}
	return poly
}

func farthestFrom(c Contour, from int) int {
	origin := toR2(c[from])
	best, bestDist := from, -1.0
	for i, p := range c {
		if d := toR2(p).Sub(origin).Norm(); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// simplifyChain runs Douglas-Peucker on the cyclic chain from index i to
// index j, marking retained points in keep.
func simplifyChain(c Contour, i, j int, epsilon float64, keep []bool) {
	n := len(c)
	type span struct{ from, to int }
	stack := []span{{i, j}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		length := (s.to - s.from + n) % n
		if length < 2 {
			continue
		}

		p0, p1 := toR2(c[s.from]), toR2(c[s.to])
		split, maxDist := -1, -1.0
		for k := 1; k < length; k++ {
			idx := (s.from + k) % n
			if d := distanceToLine(toR2(c[idx]), p0, p1); d > maxDist {
				split, maxDist = idx, d
			}
		}

		if maxDist > epsilon {
			keep[split] = true
			stack = append(stack, span{s.from, split}, span{split, s.to})
		}
	}
}

// distanceToLine is the distance from p to the line through a and b, or to a
// itself when a and b coincide.
func distanceToLine(p, a, b r2.Point) float64 {
	ab := b.Sub(a)
	norm := ab.Norm()
	if norm == 0 {
		return p.Sub(a).Norm()
	}
	return math.Abs(ab.Cross(p.Sub(a))) / norm
}
