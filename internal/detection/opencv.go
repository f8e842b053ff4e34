//go:build gocv

package detection

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// openCVBlurSize and openCVBlurSigma are the Gaussian kernel of the camera
// station.
var openCVBlurSize = image.Pt(3, 3)

const openCVBlurSigma = 1.5

func openCVDetector() (DetectFunc, error) {
	return DetectShapesOpenCV, nil
}

// DetectShapesOpenCV runs the DetectShapes pipeline on OpenCV: GaussianBlur,
// Canny, FindContours with external retrieval and simple chain
// approximation, ArcLength, ContourArea and ApproxPolyDP.
//
// BlurRadius and BridgeRadius are not used; OpenCV's contour tracer follows
// the thin Canny outline without bridging.
func DetectShapesOpenCV(region image.Image, opts Options) (*ShapesResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid detection options")
	}

	// Clone gives a tightly packed NRGBA image starting at (0,0), which
	// ImageToMatRGB converts pixel by pixel whatever the region's origin.
	src, err := gocv.ImageToMatRGB(imaging.Clone(region))
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert region")
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(src, &gray, gocv.ColorBGRToGray); err != nil {
		return nil, errors.Wrap(err, "failed to convert to grayscale")
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	if err := gocv.GaussianBlur(gray, &blurred, openCVBlurSize, openCVBlurSigma, openCVBlurSigma, gocv.BorderDefault); err != nil {
		return nil, errors.Wrap(err, "failed to blur")
	}

	edges := gocv.NewMat()
	defer edges.Close()
	if err := gocv.Canny(blurred, &edges, float32(opts.ThresholdLow), float32(opts.ThresholdHigh)); err != nil {
		return nil, errors.Wrap(err, "edge detection failed")
	}

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	shapes := make([]ShapeRecord, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		record, ok := measureOpenCV(contours.At(i), opts)
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

// measureOpenCV is Measure on an OpenCV contour. The contour is owned by its
// PointsVector and is not closed here.
func measureOpenCV(c gocv.PointVector, opts Options) (ShapeRecord, bool) {
	perimeter := gocv.ArcLength(c, true)
	area := gocv.ContourArea(c)
	circularity, ok := Circularity(area, perimeter)
	if !ok {
		return ShapeRecord{}, false
	}

	approx := gocv.ApproxPolyDP(c, opts.EpsilonFraction*perimeter, true)
	poly := approx.ToPoints()
	approx.Close()

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
		Bounds:      boundsOf(Contour(c.ToPoints())),
	}, true
}
