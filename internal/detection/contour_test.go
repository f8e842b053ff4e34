package detection

import (
	"image"
	"testing"
)

// createRingEdges builds a binary edge map with one-pixel square rings
func createRingEdges(size int, rings ...[2]int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, size, size))
	for _, r := range rings {
		lo, hi := r[0], r[1]
		for i := lo; i <= hi; i++ {
			g.Pix[g.PixOffset(i, lo)] = 255
			g.Pix[g.PixOffset(i, hi)] = 255
			g.Pix[g.PixOffset(lo, i)] = 255
			g.Pix[g.PixOffset(hi, i)] = 255
		}
	}
	return g
}

func TestFindContours_IgnoresNested(t *testing.T) {
	edges := createRingEdges(20, [2]int{2, 17}, [2]int{6, 13})

	contours := FindContours(edges)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}

	c := contours[0]
	if c[0] != image.Pt(2, 2) {
		t.Errorf("contour should start at the first pixel in raster order, got %v", c[0])
	}
	if len(c) != 60 {
		t.Errorf("length: got %d, want 60", len(c))
	}
	if c[1] != image.Pt(3, 2) {
		t.Errorf("trace should run clockwise, second point %v", c[1])
	}

	seen := make(map[image.Point]bool)
	for _, p := range c {
		if seen[p] {
			t.Errorf("point %v visited twice", p)
		}
		seen[p] = true
		if p.X > 2 && p.X < 17 && p.Y > 2 && p.Y < 17 {
			t.Errorf("point %v belongs to the nested ring", p)
		}
	}
}

func TestFindContours_SiblingsAndIsolatedPixel(t *testing.T) {
	edges := createRingEdges(30, [2]int{1, 8}, [2]int{15, 25})
	edges.Pix[edges.PixOffset(0, 29)] = 255

	contours := FindContours(edges)
	if len(contours) != 3 {
		t.Fatalf("got %d contours, want 3", len(contours))
	}
	if contours[0][0] != image.Pt(1, 1) || contours[1][0] != image.Pt(15, 15) {
		t.Errorf("unexpected order: %v, %v", contours[0][0], contours[1][0])
	}
	if len(contours[2]) != 1 || contours[2][0] != image.Pt(0, 29) {
		t.Errorf("isolated pixel contour: got %v", contours[2])
	}
}

func TestFindContours_OpenCurve(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 10, 10))
	for x := 2; x <= 6; x++ {
		g.Pix[g.PixOffset(x, 4)] = 255
	}

	contours := FindContours(g)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	// A line is walked out and back.
	if got := len(contours[0]); got != 8 {
		t.Errorf("length: got %d, want 8", got)
	}
	if Area(contours[0]) != 0 {
		t.Errorf("area of a line should be 0, got %v", Area(contours[0]))
	}
}

func TestFindContours_OffsetBounds(t *testing.T) {
	full := createRingEdges(20, [2]int{5, 10})
	view := full.SubImage(image.Rect(2, 2, 20, 20)).(*image.Gray)

	contours := FindContours(view)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	if contours[0][0] != image.Pt(5, 5) {
		t.Errorf("contour should be in the map's own coordinates, got %v", contours[0][0])
	}
}

func TestFindContours_Empty(t *testing.T) {
	if got := FindContours(image.NewGray(image.Rect(0, 0, 10, 10))); len(got) != 0 {
		t.Errorf("got %d contours, want 0", len(got))
	}
	if got := FindContours(image.NewGray(image.Rectangle{})); got != nil {
		t.Errorf("zero-size map: got %v", got)
	}
}

func TestArcLengthAndArea_Ring(t *testing.T) {
	c := FindContours(createRingEdges(20, [2]int{2, 17}))[0]

	if got := ArcLength(c); got != 60 {
		t.Errorf("ArcLength: got %v, want 60", got)
	}
	if got := Area(c); got != 225 {
		t.Errorf("Area: got %v, want 225", got)
	}
}
