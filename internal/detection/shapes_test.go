package detection

import (
	"encoding/json"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// fillWhere paints fg on every pixel whose center satisfies inside
func fillWhere(img *image.RGBA, fg color.Color, inside func(x, y float64) bool) *image.RGBA {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if inside(float64(x)+0.5, float64(y)+0.5) {
				img.Set(x, y, fg)
			}
		}
	}
	return img
}

// regularPolygon returns the vertices of a regular n-gon with circumradius r
func regularPolygon(n int, cx, cy, r, rotation float64) [][2]float64 {
	pts := make([][2]float64, n)
	for i := range pts {
		a := rotation + 2*math.Pi*float64(i)/float64(n)
		pts[i] = [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}

// insideConvex reports whether (x, y) is inside the convex polygon pts
func insideConvex(pts [][2]float64) func(x, y float64) bool {
	return func(x, y float64) bool {
		sign := 0
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			cross := (b[0]-a[0])*(y-a[1]) - (b[1]-a[1])*(x-a[0])
			switch {
			case cross > 0 && sign < 0, cross < 0 && sign > 0:
				return false
			case cross > 0:
				sign = 1
			case cross < 0:
				sign = -1
			}
		}
		return true
	}
}

// createPolygonImage draws a solid white regular polygon on black
func createPolygonImage(sides int, r, rotation float64) *image.RGBA {
	img := createTestImage(200, 200, color.Black)
	return fillWhere(img, color.White, insideConvex(regularPolygon(sides, 100, 100, r, rotation)))
}

// createDiscImage draws a solid disc of fg on bg
func createDiscImage(radius float64, fg, bg color.Color) *image.RGBA {
	img := createTestImage(200, 200, bg)
	return fillWhere(img, fg, func(x, y float64) bool {
		return (x-100)*(x-100)+(y-100)*(y-100) <= radius*radius
	})
}

func detect(t *testing.T, img image.Image) *ShapesResult {
	t.Helper()
	result, err := DetectShapes(img, DefaultOptions())
	if err != nil {
		t.Fatalf("DetectShapes failed: %v", err)
	}
	return result
}

func TestDetectShapes_Triangle(t *testing.T) {
	img := createPolygonImage(3, 70, -math.Pi/2)

	result := detect(t, img)
	if result.Count != 1 {
		t.Fatalf("Count: got %d, want 1 (%+v)", result.Count, result.Shapes)
	}

	s := result.Shapes[0]
	if s.Shape != Triangle {
		t.Errorf("Shape: got %s, want Triangle (vertices=%d circularity=%.3f)", s.Shape, s.Vertices, s.Circularity)
	}
	if s.Quality != GoodPart {
		t.Errorf("Quality: got %s, want Good part", s.Quality)
	}
	if s.Vertices != 3 {
		t.Errorf("Vertices: got %d, want 3", s.Vertices)
	}
}

func TestDetectShapes_Circle(t *testing.T) {
	for _, radius := range []float64{30, 60} {
		img := createDiscImage(radius, color.White, color.Black)

		result := detect(t, img)
		if result.Count != 1 {
			t.Fatalf("r=%v: Count: got %d, want 1", radius, result.Count)
		}

		s := result.Shapes[0]
		if s.Shape != Circle || s.Quality != GoodPart {
			t.Errorf("r=%v: got %s/%s, want Circle/Good part", radius, s.Shape, s.Quality)
		}
		if s.Circularity <= DefaultCircularity {
			t.Errorf("r=%v: circularity %.3f not above %.1f", radius, s.Circularity, DefaultCircularity)
		}
		// The circle path does not depend on the approximated polygon.
		if s.Vertices == 0 {
			t.Errorf("r=%v: polygon approximation returned no vertices", radius)
		}
	}
}

func TestDetectShapes_Square(t *testing.T) {
	img := fillWhere(createTestImage(200, 200, color.Black), color.White, func(x, y float64) bool {
		return x >= 60 && x < 140 && y >= 60 && y < 140
	})

	result := detect(t, img)
	if result.Count != 1 {
		t.Fatalf("Count: got %d, want 1", result.Count)
	}
	s := result.Shapes[0]
	if s.Shape != Square || s.Quality != GoodPart {
		t.Errorf("got %s/%s (vertices=%d circularity=%.3f), want Square/Good part",
			s.Shape, s.Quality, s.Vertices, s.Circularity)
	}

	// Bounds are exclusive at X2/Y2 like image.Rectangle: they cover the
	// square and contain every polygon vertex.
	box := s.Bounds.Rect()
	if !image.Rect(60, 60, 140, 140).In(box) {
		t.Errorf("bounds %v should cover the square", box)
	}
	for _, p := range s.Polygon {
		if !image.Pt(p.X, p.Y).In(box) {
			t.Errorf("vertex %v outside bounds %v", p, box)
		}
	}
}

func TestDetectShapes_Hexagon(t *testing.T) {
	tests := []struct {
		name     string
		radius   float64
		rotation float64
	}{
		{"flat top r60", 60, 0},
		{"pointy top r60", 60, -math.Pi / 2},
		{"flat top r40", 40, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := detect(t, createPolygonImage(6, tt.radius, tt.rotation))
			if result.Count != 1 {
				t.Fatalf("Count: got %d, want 1", result.Count)
			}
			s := result.Shapes[0]
			if s.Shape != Hexagon || s.Quality != GoodPart {
				t.Errorf("got %s/%s (vertices=%d circularity=%.3f), want Hexagon/Good part",
					s.Shape, s.Quality, s.Vertices, s.Circularity)
			}
			if s.Circularity >= DefaultCircularity {
				t.Errorf("circularity %.3f should stay below %.1f", s.Circularity, DefaultCircularity)
			}
		})
	}
}

func TestDetectShapes_PentagonIsBadPart(t *testing.T) {
	img := createPolygonImage(5, 60, -math.Pi/2)

	result := detect(t, img)
	if result.Count != 1 {
		t.Fatalf("Count: got %d, want 1", result.Count)
	}
	s := result.Shapes[0]
	if s.Shape != NoShape || s.Quality != BadPart {
		t.Errorf("got %s/%s (vertices=%d circularity=%.3f), want No shape detected/Bad part",
			s.Shape, s.Quality, s.Vertices, s.Circularity)
	}
}

func TestDetectShapes_ColoredOnWhite(t *testing.T) {
	img := createDiscImage(60, color.RGBA{0, 0, 255, 255}, color.White)

	result := detect(t, img)
	if result.Count != 1 || result.Shapes[0].Shape != Circle {
		t.Errorf("got %+v, want one Circle", result.Shapes)
	}
}

func TestDetectShapes_Empty(t *testing.T) {
	img := createTestImage(200, 200, color.RGBA{128, 128, 128, 255})

	result := detect(t, img)
	if result.Count != 0 || len(result.Shapes) != 0 {
		t.Errorf("uniform image: got %d shapes, want 0", result.Count)
	}
}

func TestDetectShapes_RegionView(t *testing.T) {
	frame := createTestImage(640, 480, color.Black)
	fillWhere(frame, color.White, func(x, y float64) bool {
		return (x-320)*(x-320)+(y-240)*(y-240) <= 50*50
	})
	region := frame.SubImage(image.Rect(220, 140, 420, 340))

	result := detect(t, region)
	if result.Count != 1 {
		t.Fatalf("Count: got %d, want 1", result.Count)
	}
	b := result.Shapes[0].Bounds
	if b.X1 < 40 || b.X1 > 55 || b.Y1 < 40 || b.Y1 > 55 {
		t.Errorf("bounds should be region-relative, got %+v", b)
	}
}

func TestDetectShapes_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.ThresholdLow = 300

	if _, err := DetectShapes(createTestImage(10, 10, color.Black), opts); err == nil {
		t.Error("expected error for low threshold above high threshold")
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
	}{
		{"negative blur", func(o *Options) { o.BlurRadius = -1 }},
		{"negative threshold", func(o *Options) { o.ThresholdLow = -1 }},
		{"inverted thresholds", func(o *Options) { o.ThresholdLow, o.ThresholdHigh = 200, 100 }},
		{"negative bridge", func(o *Options) { o.BridgeRadius = -1 }},
		{"zero epsilon", func(o *Options) { o.EpsilonFraction = 0 }},
		{"epsilon too large", func(o *Options) { o.EpsilonFraction = 1 }},
		{"zero circularity", func(o *Options) { o.CircularityMin = 0 }},
		{"circularity above one", func(o *Options) { o.CircularityMin = 1.5 }},
	}

	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			if err := o.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		vertices    int
		circularity float64
		shape       ShapeKind
		quality     Quality
	}{
		{3, 0.6, Triangle, GoodPart},
		{4, 0.78, Square, GoodPart},
		{6, 0.8, Hexagon, GoodPart},
		{8, 0.95, Circle, GoodPart},
		{3, 0.95, Circle, GoodPart},
		{8, 0.9, NoShape, BadPart},
		{5, 0.85, NoShape, BadPart},
		{2, 0.1, NoShape, BadPart},
		{0, 0, NoShape, BadPart},
	}

	for _, tt := range tests {
		shape, quality := Classify(tt.vertices, tt.circularity)
		if shape != tt.shape || quality != tt.quality {
			t.Errorf("Classify(%d, %.2f): got %s/%s, want %s/%s",
				tt.vertices, tt.circularity, shape, quality, tt.shape, tt.quality)
		}
	}
}

func TestMeasure_DegenerateContour(t *testing.T) {
	if _, ok := Measure(Contour{{5, 5}}, DefaultOptions()); ok {
		t.Error("single-point contour should be skipped")
	}
	if _, ok := Measure(nil, DefaultOptions()); ok {
		t.Error("empty contour should be skipped")
	}
}

func TestShapeLabels(t *testing.T) {
	if NoShape.String() != "No shape detected" {
		t.Errorf("NoShape: got %q", NoShape.String())
	}
	if GoodPart.String() != "Good part" || BadPart.String() != "Bad part" {
		t.Errorf("quality labels: got %q, %q", GoodPart, BadPart)
	}

	data, err := json.Marshal(ShapeRecord{Shape: Hexagon, Quality: GoodPart})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"shape":"Hexagon"`) || !strings.Contains(string(data), `"quality":"Good part"`) {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestAnnotate(t *testing.T) {
	img := createDiscImage(50, color.White, color.Black)
	result := detect(t, img)

	out := Annotate(img, result.Shapes)
	if out.Bounds() != img.Bounds() {
		t.Errorf("bounds: got %v, want %v", out.Bounds(), img.Bounds())
	}
	if img.RGBAAt(0, 0) != (color.RGBA{0, 0, 0, 255}) {
		t.Error("Annotate modified its input")
	}
}

func TestNewDetector(t *testing.T) {
	for _, name := range []string{"", DetectorGo} {
		detect, err := NewDetector(name)
		if err != nil {
			t.Fatalf("NewDetector(%q) failed: %v", name, err)
		}
		result, err := detect(createPolygonImage(3, 70, -math.Pi/2), DefaultOptions())
		if err != nil {
			t.Fatalf("detect failed: %v", err)
		}
		if result.Count != 1 || result.Shapes[0].Shape != Triangle {
			t.Errorf("NewDetector(%q): got %+v, want one Triangle", name, result.Shapes)
		}
	}

	if _, err := NewDetector("tensorflow"); err == nil {
		t.Error("expected an error for an unknown detector")
	}
}
