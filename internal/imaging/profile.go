package imaging

import (
	"image"
)

// Exclusion thresholds on the 8-bit HSV scale.
const (
	// WhiteMaxSaturation and WhiteMinValue bound the near-white mask:
	// a pixel is near-white when S < WhiteMaxSaturation and V > WhiteMinValue.
	WhiteMaxSaturation = 40
	WhiteMinValue      = 200

	// BlackMaxValue bounds the near-black mask: V < BlackMaxValue.
	BlackMaxValue = 50
)

// ProfileResult is the outcome of profiling a region.
type ProfileResult struct {
	// Mean is the mean HSV of the included pixels. Zero when Included is 0.
	Mean HSV `json:"mean"`

	// Included is the number of pixels that passed both exclusion masks.
	Included int `json:"included"`

	// Total is the number of pixels in the region.
	Total int `json:"total"`
}

// Empty reports whether every pixel of the region was excluded.
func (r ProfileResult) Empty() bool {
	return r.Included == 0
}

// IsNearWhite reports whether c is washed out: low saturation and high value.
func IsNearWhite(c HSV) bool {
	return c.S < WhiteMaxSaturation && c.V > WhiteMinValue
}

// IsNearBlack reports whether c is too dark to carry a hue.
func IsNearBlack(c HSV) bool {
	return c.V < BlackMaxValue
}

// ProfileRegion computes the mean HSV of region, ignoring near-white and
// near-black pixels.
//
// Each pixel is converted with ToHSV, tested against the union of the two
// exclusion masks, and accumulated only if it is outside both. The region may
// have any origin; every pixel inside region.Bounds() is visited.
func ProfileRegion(region image.Image) ProfileResult {
	bounds := region.Bounds()

	var sumH, sumS, sumV float64
	included := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := ToHSV(region.At(x, y))
			if IsNearWhite(c) || IsNearBlack(c) {
				continue
			}
			sumH += c.H
			sumS += c.S
			sumV += c.V
			included++
		}
	}

	result := ProfileResult{
		Included: included,
		Total:    bounds.Dx() * bounds.Dy(),
	}
	if included > 0 {
		n := float64(included)
		result.Mean = HSV{H: sumH / n, S: sumS / n, V: sumV / n}
	}
	return result
}

// Profile returns the representative color of region.
//
// The boolean is false when the exclusion masks removed every pixel; the caller
// must then skip color classification for this frame.
func Profile(region image.Image) (HSV, bool) {
	r := ProfileRegion(region)
	if r.Empty() {
		return HSV{}, false
	}
	return r.Mean, true
}
