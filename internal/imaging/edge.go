package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// EdgeDetectResult contains an edge-detected image encoded as base64 PNG.
//
// The result is a grayscale image where white pixels (255) represent detected
// edges and black pixels (0) represent non-edges.
type EdgeDetectResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// EdgePixels is the number of white pixels in the edge map.
	EdgePixels int `json:"edge_pixels"`

	// ImageBase64 is the edge image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png" for edge detection results.
	MimeType string `json:"mime_type"`
}

// Smooth applies a small Gaussian blur to suppress sensor noise before edge
// detection. A radius of 1 gives a 3-tap kernel in each direction.
//
// The result always starts at (0,0). Views with a non-zero origin, such as an
// inspection region, are copied first.
func Smooth(img image.Image, radius float64) *image.RGBA {
	if img.Bounds().Min != (image.Point{}) {
		img = imaging.Clone(img)
	}
	return blur.Gaussian(img, radius)
}

// NewEdgeDetectResult counts the edge pixels of a binary edge map and encodes it.
func NewEdgeDetectResult(edges *image.Gray) (*EdgeDetectResult, error) {
	count := 0
	for _, v := range edges.Pix {
		if v != 0 {
			count++
		}
	}

	encoded, err := EncodePNG(edges)
	if err != nil {
		return nil, err
	}

	return &EdgeDetectResult{
		Width:       edges.Bounds().Dx(),
		Height:      edges.Bounds().Dy(),
		EdgePixels:  count,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// Canny computes a binary edge map of img.
//
// The input is not blurred here; callers smooth it first (see Smooth). The
// output has the same size as img, starts at (0,0), and holds 255 on edges and
// 0 elsewhere.
//
// # Algorithm
//
//  1. Grayscale conversion through bild's luminance weights, on a 0-255 scale
//
//  2. Gradient computation: 3x3 Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  3. Non-maximum suppression: keep only local maxima along the gradient
//     direction, quantized to four orientations
//
//  4. Hysteresis thresholding:
//     - Pixels with magnitude >= thresholdHigh are strong edges
//     - Pixels with magnitude >= thresholdLow are kept when they are
//     8-connected, directly or through other weak pixels, to a strong edge
//     - Everything else is discarded
//
// Thresholds are on the Sobel magnitude of 0-255 intensities, the same scale
// as common vision libraries, so low=100 / high=200 behave as usual.
func Canny(img image.Image, thresholdLow, thresholdHigh int) *image.Gray {
	gray := effect.Grayscale(img)
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	lum := func(x, y int) float64 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return float64(gray.Pix[gray.PixOffset(x+bounds.Min.X, y+bounds.Min.Y)])
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := -lum(x-1, y-1) + lum(x+1, y-1) +
				-2*lum(x-1, y) + 2*lum(x+1, y) +
				-lum(x-1, y+1) + lum(x+1, y+1)
			gy := -lum(x-1, y-1) - 2*lum(x, y-1) - lum(x+1, y-1) +
				lum(x-1, y+1) + 2*lum(x, y+1) + lum(x+1, y+1)

			i := y*width + x
			magnitude[i] = math.Sqrt(gx*gx + gy*gy)
			direction[i] = math.Atan2(gy, gx)
		}
	}

	suppressed := nonMaxSuppress(magnitude, direction, width, height)
	return hysteresis(suppressed, width, height, float64(thresholdLow), float64(thresholdHigh))
}

// nonMaxSuppress thins gradient ridges to one pixel.
//
// The gradient angle is measured with Y pointing down, so an angle of +45°
// points towards (x+1, y+1). Border pixels are never edges.
func nonMaxSuppress(magnitude, direction []float64, width, height int) []float64 {
	suppressed := make([]float64, width*height)
	at := func(x, y int) float64 { return magnitude[y*width+x] }

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag == 0 {
				continue
			}

			// Fold the angle into [0, π).
			angle := direction[i]
			if angle < 0 {
				angle += math.Pi
			}

			var n1, n2 float64
			switch {
			case angle < math.Pi/8 || angle >= 7*math.Pi/8:
				n1, n2 = at(x-1, y), at(x+1, y)
			case angle < 3*math.Pi/8:
				n1, n2 = at(x-1, y-1), at(x+1, y+1)
			case angle < 5*math.Pi/8:
				n1, n2 = at(x, y-1), at(x, y+1)
			default:
				n1, n2 = at(x+1, y-1), at(x-1, y+1)
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}
	return suppressed
}

// hysteresis keeps strong pixels and every weak pixel connected to one.
func hysteresis(suppressed []float64, width, height int, low, high float64) *image.Gray {
	result := image.NewGray(image.Rect(0, 0, width, height))
	stack := make([]int, 0, width)

	for i, v := range suppressed {
		if v >= high && result.Pix[i] == 0 {
			result.Pix[i] = 255
			stack = append(stack, i)
		}

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := p%width, p/width

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := px+dx, py+dy
					if nx < 0 || nx >= width || ny < 0 || ny >= height {
						continue
					}
					n := ny*width + nx
					if result.Pix[n] == 0 && suppressed[n] >= low {
						result.Pix[n] = 255
						stack = append(stack, n)
					}
				}
			}
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
