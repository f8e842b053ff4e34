// Package detection finds and classifies part outlines in an inspection region.
//
// The package turns a region into a list of shape records, one per external
// boundary. Each record carries the boundary's metrics, its approximated
// polygon, a shape label and a pass/fail verdict.
//
// # Pipeline
//
//  1. Edge map: Gaussian blur and Canny from the imaging package, followed by
//     a small dilation that closes one-pixel breaks
//  2. Contours: outer boundaries of edge components that are not enclosed by
//     another component, traced clockwise with Moore-neighbour tracing
//  3. Polygon: closed Douglas-Peucker approximation with a tolerance
//     proportional to the boundary's perimeter
//  4. Metrics: shoelace area and arc length of the boundary itself
//  5. Classification: circularity first, then the polygon's vertex count
//
// # Shape Labels
//
//   - Circle: circularity above 0.9, whatever the vertex count
//   - Triangle, Square, Hexagon: 3, 4 or 6 vertices
//   - No shape detected: anything else
//
// Circle, Triangle, Square and Hexagon are good parts; everything else is a
// bad part.
//
// The arc length of a digitized boundary runs a few percent above the length
// of the ideal curve, so a regular hexagon (ideal circularity 0.907) measures
// about 0.84 and keeps its label, while a disc measures just above 0.9.
//
// # Backends
//
// DetectShapes is pure Go. Builds with the gocv tag also provide
// DetectShapesOpenCV, the same pipeline on OpenCV primitives; NewDetector
// selects one by name.
//
// # Coordinate System
//
// All coordinates use the standard image convention, relative to the top-left
// corner of the analyzed region:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Limitations
//
// These algorithms work best on clean, high-contrast parts against a plain
// background. Touching parts merge into one boundary, and parts that leave the
// region are traced along the region border.
package detection
