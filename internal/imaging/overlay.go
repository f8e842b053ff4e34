package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// LabelColor is the color used for shape names on the overlay.
var LabelColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}

// BoxColor outlines the inspection box on the camera view.
var BoxColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}

// LabelSize is the overlay font size in points.
const LabelSize = 12

var font *truetype.Font

// init parses the embedded Go regular font used for overlays.
func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Label is a piece of text anchored at a point of the annotated image.
type Label struct {
	Text string
	At   image.Point
}

// Annotate draws labels onto a copy of img and returns the copy.
//
// The copy starts at (0,0); label positions are relative to img's top-left
// corner. The source image is never modified, so a region that is a view into
// a frame can be annotated safely.
func Annotate(img image.Image, labels []Label) image.Image {
	dc := gg.NewContextForImage(imaging.Clone(img))
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: LabelSize}))
	dc.SetColor(LabelColor)

	for _, l := range labels {
		dc.DrawString(l.Text, float64(l.At.X), float64(l.At.Y))
	}
	return dc.Image()
}

// OutlineBox draws the inspection rectangle on a copy of frame.
func OutlineBox(frame image.Image, rect image.Rectangle, c color.Color) image.Image {
	dc := gg.NewContextForImage(imaging.Clone(frame))
	offset := frame.Bounds().Min
	r := rect.Sub(offset)

	dc.SetColor(c)
	dc.SetLineWidth(2)
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	dc.Stroke()
	return dc.Image()
}
