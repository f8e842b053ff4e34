package detection

import (
	"image"
	"math"
	"testing"

	"github.com/golang/geo/r2"
)

// createDiamondEdges builds a one-pixel diamond with diagonal sides of 6 steps
func createDiamondEdges() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, 20, 20))
	for k := 0; k < 6; k++ {
		for _, p := range []image.Point{{10 + k, 4 + k}, {16 - k, 10 + k}, {10 - k, 16 - k}, {4 + k, 10 - k}} {
			g.Pix[g.PixOffset(p.X, p.Y)] = 255
		}
	}
	return g
}

func TestApproxPolygon_Square(t *testing.T) {
	c := FindContours(createRingEdges(20, [2]int{2, 17}))[0]

	poly := ApproxPolygon(c, 0.02*ArcLength(c))
	want := []image.Point{{2, 2}, {17, 2}, {17, 17}, {2, 17}}
	if len(poly) != len(want) {
		t.Fatalf("got %v, want %v", poly, want)
	}
	for i := range want {
		if poly[i] != want[i] {
			t.Errorf("vertex %d: got %v, want %v", i, poly[i], want[i])
		}
	}
}

func TestApproxPolygon_Diamond(t *testing.T) {
	c := FindContours(createDiamondEdges())[0]

	if len(c) != 24 {
		t.Fatalf("contour length: got %d, want 24", len(c))
	}
	wantLength := 24 * math.Sqrt2
	if got := ArcLength(c); math.Abs(got-wantLength) > 1e-9 {
		t.Errorf("ArcLength: got %v, want %v", got, wantLength)
	}
	if got := Area(c); got != 72 {
		t.Errorf("Area: got %v, want 72", got)
	}

	poly := ApproxPolygon(c, 0.02*ArcLength(c))
	want := []image.Point{{10, 4}, {16, 10}, {10, 16}, {4, 10}}
	if len(poly) != len(want) {
		t.Fatalf("got %v, want %v", poly, want)
	}
	for i := range want {
		if poly[i] != want[i] {
			t.Errorf("vertex %d: got %v, want %v", i, poly[i], want[i])
		}
	}
}

func TestApproxPolygon_ToleranceBound(t *testing.T) {
	// Staircase circle: every contour point must stay within epsilon of the polygon.
	img := createDiscImage(40, image.White.C, image.Black.C)
	c := FindContours(EdgeMap(img, DefaultOptions()))[0]
	epsilon := 0.02 * ArcLength(c)

	poly := ApproxPolygon(c, epsilon)
	if len(poly) < 3 {
		t.Fatalf("got %d vertices", len(poly))
	}

	for _, p := range c {
		best := math.Inf(1)
		for i := range poly {
			a, b := toR2(poly[i]), toR2(poly[(i+1)%len(poly)])
			if d := distanceToSegment(toR2(p), a, b); d < best {
				best = d
			}
		}
		if best > epsilon+1e-9 {
			t.Errorf("point %v is %.2f from the polygon, epsilon %.2f", p, best, epsilon)
		}
	}
}

func distanceToSegment(p, a, b r2.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Norm()
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l2))
	return p.Sub(a.Add(ab.Mul(t))).Norm()
}

func TestApproxPolygon_Short(t *testing.T) {
	c := Contour{{1, 1}, {2, 1}}
	poly := ApproxPolygon(c, 1)
	if len(poly) != 2 {
		t.Fatalf("got %v", poly)
	}
	poly[0] = image.Pt(9, 9)
	if c[0] != image.Pt(1, 1) {
		t.Error("ApproxPolygon should not alias its input")
	}
}

func TestArcLength_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		c    Contour
	}{
		{"nil", nil},
		{"single point", Contour{{3, 3}}},
		{"repeated point", Contour{{3, 3}, {3, 3}}},
	}
	for _, tt := range tests {
		if got := ArcLength(tt.c); got != 0 {
			t.Errorf("%s: got %v, want 0", tt.name, got)
		}
	}
}

func TestCircularity(t *testing.T) {
	if _, ok := Circularity(10, 0); ok {
		t.Error("zero perimeter must not produce a circularity")
	}

	r := 10.0
	got, ok := Circularity(math.Pi*r*r, 2*math.Pi*r)
	if !ok || math.Abs(got-1) > 1e-9 {
		t.Errorf("ideal circle: got %v, %v", got, ok)
	}

	got, _ = Circularity(1, 4)
	if math.Abs(got-math.Pi/4) > 1e-9 {
		t.Errorf("unit square: got %v, want π/4", got)
	}
}

func TestDistanceToLine(t *testing.T) {
	a, b := r2.Point{X: 0, Y: 0}, r2.Point{X: 10, Y: 0}
	if got := distanceToLine(r2.Point{X: 5, Y: 3}, a, b); got != 3 {
		t.Errorf("got %v, want 3", got)
	}
	if got := distanceToLine(r2.Point{X: 3, Y: 4}, a, a); got != 5 {
		t.Errorf("coincident endpoints: got %v, want 5", got)
	}
}
