package imaging

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HueMax is the exclusive upper bound of the 8-bit hue scale.
const HueMax = 180

// HSV is a color in the 8-bit hue-saturation-value convention.
//
// H is in [0, 180), S and V are in [0, 255]. Values produced by Profile are
// means and therefore fractional.
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

func (c HSV) String() string {
	return fmt.Sprintf("(h=%.1f, s=%.1f, v=%.1f)", c.H, c.S, c.V)
}

// ToHSV converts a color to 8-bit HSV.
//
// The conversion goes through go-colorful and is rounded per channel the way an
// 8-bit HSV image would store it. A hue that rounds up to 180 wraps to 0.
// Fully transparent colors convert to black.
func ToHSV(c color.Color) HSV {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return HSV{}
	}

	h, s, v := cf.Hsv()
	hue := math.Round(h / 2)
	if hue >= HueMax {
		hue -= HueMax
	}

	return HSV{
		H: hue,
		S: math.Round(s * 255),
		V: math.Round(v * 255),
	}
}
