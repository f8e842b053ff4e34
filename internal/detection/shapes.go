package detection

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/pkg/errors"

	inspimg "github.com/ironsheep/part-inspector/internal/imaging"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// NewBounds converts an image rectangle.
func NewBounds(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Rect is b as an image rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// ShapeKind is the label assigned to one boundary.
type ShapeKind int

// Shape labels. NoShape covers every boundary that is not an accepted shape.
const (
	NoShape ShapeKind = iota
	Circle
	Triangle
	Square
	Hexagon
)

func (k ShapeKind) String() string {
	switch k {
	case Circle:
		return "Circle"
	case Triangle:
		return "Triangle"
	case Square:
		return "Square"
	case Hexagon:
		return "Hexagon"
	default:
		return "No shape detected"
	}
}

// MarshalText renders the shape by name in JSON output.
func (k ShapeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Quality is the pass/fail verdict of a part.
type Quality int

const (
	BadPart Quality = iota
	GoodPart
)

func (q Quality) String() string {
	if q == GoodPart {
		return "Good part"
	}
	return "Bad part"
}

// MarshalText renders the verdict by name in JSON output.
func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// DefaultCircularity is the circularity above which a boundary is a circle.
const DefaultCircularity = 0.9

// Options tunes DetectShapes. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// BlurRadius is the Gaussian radius applied before edge detection.
	BlurRadius float64 `json:"blur_radius"`

	// ThresholdLow and ThresholdHigh are the Canny hysteresis thresholds on
	// the Sobel magnitude of 0-255 intensities.
	ThresholdLow  int `json:"threshold_low"`
	ThresholdHigh int `json:"threshold_high"`

	// BridgeRadius dilates the edge map so that one-pixel breaks left by
	// non-maximum suppression at corners do not open a boundary. 0 disables it.
	BridgeRadius float64 `json:"bridge_radius"`

	// EpsilonFraction is the polygon approximation tolerance as a fraction
	// of each boundary's perimeter.
	EpsilonFraction float64 `json:"epsilon_fraction"`

	// CircularityMin is the circularity above which a boundary is a circle.
	CircularityMin float64 `json:"circularity_min"`
}

// DefaultOptions returns the production detection settings.
func DefaultOptions() Options {
	return Options{
		BlurRadius:      1,
		ThresholdLow:    100,
		ThresholdHigh:   200,
		BridgeRadius:    1,
		EpsilonFraction: 0.02,
		CircularityMin:  DefaultCircularity,
	}
}

// Validate reports the first inconsistent setting.
func (o Options) Validate() error {
	switch {
	case o.BlurRadius < 0:
		return errors.Errorf("blur radius %v must not be negative", o.BlurRadius)
	case o.ThresholdLow < 0 || o.ThresholdHigh < 0:
		return errors.Errorf("thresholds %d/%d must not be negative", o.ThresholdLow, o.ThresholdHigh)
	case o.ThresholdLow > o.ThresholdHigh:
		return errors.Errorf("low threshold %d exceeds high threshold %d", o.ThresholdLow, o.ThresholdHigh)
	case o.BridgeRadius < 0:
		return errors.Errorf("bridge radius %v must not be negative", o.BridgeRadius)
	case o.EpsilonFraction <= 0 || o.EpsilonFraction >= 1:
		return errors.Errorf("epsilon fraction %v must be in (0, 1)", o.EpsilonFraction)
	case o.CircularityMin <= 0 || o.CircularityMin > 1:
		return errors.Errorf("circularity threshold %v must be in (0, 1]", o.CircularityMin)
	}
	return nil
}

// ShapeRecord describes one external boundary found in a region.
type ShapeRecord struct {
	// Shape is the detected shape label.
	Shape ShapeKind `json:"shape"`

	// Quality is GoodPart for accepted shapes and BadPart otherwise.
	Quality Quality `json:"quality"`

	// Vertices is the vertex count of the approximated polygon.
	Vertices int `json:"vertices"`

	// Circularity is 4πA/P² of the boundary itself, not of the polygon.
	Circularity float64 `json:"circularity"`

	// Area and Perimeter are measured on the boundary itself.
	Area      float64 `json:"area"`
	Perimeter float64 `json:"perimeter"`

	// Polygon is the approximated polygon in region coordinates.
	Polygon []Point `json:"polygon"`

	// Bounds is the bounding box of the boundary in region coordinates.
	Bounds Bounds `json:"bounds"`
}

// Anchor returns the first polygon vertex, where overlays place the label.
func (r ShapeRecord) Anchor() image.Point {
	if len(r.Polygon) == 0 {
		return image.Point{X: r.Bounds.X1, Y: r.Bounds.Y1}
	}
	return image.Point{X: r.Polygon[0].X, Y: r.Polygon[0].Y}
}

// Detector names accepted by NewDetector.
const (
	DetectorGo     = "go"
	DetectorOpenCV = "opencv"
)

// ErrNotCompiled is returned by NewDetector for detectors left out of the build.
var ErrNotCompiled = errors.New("detector not compiled in")

// DetectFunc finds and classifies the external boundaries of a region.
type DetectFunc func(region image.Image, opts Options) (*ShapesResult, error)

// NewDetector returns the detector called name. An empty name selects the
// pure Go detector.
func NewDetector(name string) (DetectFunc, error) {
	switch name {
	case "", DetectorGo:
		return DetectShapes, nil
	case DetectorOpenCV:
		return openCVDetector()
	}
	return nil, errors.Errorf("unknown detector %q", name)
}

// ShapesResult contains every classifiable boundary of a region.
type ShapesResult struct {
	// Shapes is the list of records in raster order of each boundary's first pixel.
	Shapes []ShapeRecord `json:"shapes"`

	// Count is the number of records.
	Count int `json:"count"`
}

// Classify maps boundary metrics to a shape and a verdict using the default
// circularity threshold.
//
// Circularity is tested first, so a circle is recognized whatever vertex
// count the polygon approximation produced.
func Classify(vertices int, circularity float64) (ShapeKind, Quality) {
	return classify(vertices, circularity, DefaultCircularity)
}

func classify(vertices int, circularity, circularityMin float64) (ShapeKind, Quality) {
	if circularity > circularityMin {
		return Circle, GoodPart
	}
	switch vertices {
	case 3:
		return Triangle, GoodPart
	case 4:
		return Square, GoodPart
	case 6:
		return Hexagon, GoodPart
	default:
		return NoShape, BadPart
	}
}

// EdgeMap produces the binary edge image DetectShapes traces: blur, Canny,
// then the optional bridging dilation. The result starts at (0,0).
func EdgeMap(region image.Image, opts Options) *image.Gray {
	edges := inspimg.Canny(inspimg.Smooth(region, opts.BlurRadius), opts.ThresholdLow, opts.ThresholdHigh)
	if opts.BridgeRadius <= 0 {
		return edges
	}
	return segment.Threshold(effect.Dilate(edges, opts.BridgeRadius), 128)
}

// DetectShapes finds the external boundaries of region and classifies each.
//
// Parameters:
//   - region: Image to analyze, usually the inspection box of a frame. Any
//     origin is accepted; reported coordinates are relative to its top-left.
//   - opts: Detection settings, see DefaultOptions.
//
// Returns:
//   - *ShapesResult: One record per classifiable boundary.
//   - error: Non-nil only if opts is invalid.
//
// # Algorithm
//
//  1. Edge map: Gaussian blur, Canny with hysteresis, bridging dilation
//  2. Contours: outer boundaries of components not enclosed by another one
//  3. Polygon: Douglas-Peucker with tolerance EpsilonFraction × perimeter
//  4. Metrics: shoelace area and arc length of the boundary
//  5. Classification: see Classify
//
// Boundaries with a zero perimeter, such as isolated pixels, have no defined
// circularity and are skipped.
func DetectShapes(region image.Image, opts Options) (*ShapesResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid detection options")
	}

	contours := FindContours(EdgeMap(region, opts))

	shapes := make([]ShapeRecord, 0, len(contours))
	for _, c := range contours {
		record, ok := Measure(c, opts)
		if !ok {
			continue
		}
		shapes = append(shapes, record)
	}

	return &ShapesResult{
		Shapes: shapes,
		Count:  len(shapes),
	}, nil
}

// Measure computes the metrics of one boundary and classifies it. The boolean
// is false for degenerate boundaries that cannot be classified.
func Measure(c Contour, opts Options) (ShapeRecord, bool) {
	perimeter := ArcLength(c)
	area := Area(c)
	circularity, ok := Circularity(area, perimeter)
	if !ok {
		return ShapeRecord{}, false
	}

	poly := ApproxPolygon(c, opts.EpsilonFraction*perimeter)
	kind, quality := classify(len(poly), circularity, opts.CircularityMin)

	vertices := make([]Point, len(poly))
	for i, p := range poly {
		vertices[i] = Point{X: p.X, Y: p.Y}
	}

	return ShapeRecord{
		Shape:       kind,
		Quality:     quality,
		Vertices:    len(poly),
		Circularity: circularity,
		Area:        area,
		Perimeter:   perimeter,
		Polygon:     vertices,
		Bounds:      boundsOf(c),
	}, true
}

// boundsOf is the smallest box containing every pixel of c.
func boundsOf(c Contour) Bounds {
	if len(c) == 0 {
		return Bounds{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0].Add(image.Pt(1, 1))}
	for _, p := range c[1:] {
		r = r.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return NewBounds(r)
}

// Annotate writes each record's shape name at its anchor on a copy of region.
func Annotate(region image.Image, shapes []ShapeRecord) image.Image {
	labels := make([]inspimg.Label, len(shapes))
	for i, s := range shapes {
		labels[i] = inspimg.Label{Text: s.Shape.String(), At: s.Anchor()}
	}
	return inspimg.Annotate(region, labels)
}
