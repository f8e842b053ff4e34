// Package imaging provides the per-frame image operations of the inspection
// pipeline.
//
// This package implements the pieces of the pipeline that work on pixels rather
// than on geometry: extracting the centered inspection region, converting pixels
// to HSV, profiling the representative color of a region, naming that color,
// computing a Canny edge map, and drawing cosmetic overlays. All operations work
// with standard Go image.Image types and use a coordinate system where (0,0) is
// at the top-left corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left), Max is exclusive (bottom-right)
//
// Regions returned by ExtractCenter are views into the source frame and keep the
// frame's coordinates. Functions that need a zero-origin image (Canny, Annotate)
// document it.
//
// # Color Representation
//
// HSV values use the 8-bit convention of common vision libraries:
//   - H: hue in [0, 180), i.e. degrees divided by two
//   - S: saturation in [0, 255]
//   - V: value in [0, 255]
//
// The color rules in ClassifyColor and the exclusion masks in Profile are
// expressed on this scale.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is
// stateless and may be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - An inspection box larger than the frame (ErrBoxTooLarge)
//   - File I/O errors during image loading
//   - Encoding errors during image output
//
// An empty color profile (every pixel excluded) is not an error; Profile reports
// it through its boolean result.
package imaging
