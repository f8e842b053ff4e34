package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ErrBoxTooLarge is returned when the inspection box does not fit in the frame.
var ErrBoxTooLarge = errors.New("inspection box larger than frame")

// CenterRect computes the centered square of side boxSize inside bounds.
//
// The origin is (width-boxSize)/2, (height-boxSize)/2 using integer division,
// offset by bounds.Min so the result is expressed in the frame's own coordinates.
// The returned rectangle is always fully contained in bounds.
//
// # Errors
//
//   - ErrBoxTooLarge if boxSize exceeds the width or the height of bounds
//   - an error if boxSize is not positive
func CenterRect(bounds image.Rectangle, boxSize int) (image.Rectangle, error) {
	if boxSize <= 0 {
		return image.Rectangle{}, errors.Errorf("invalid box size %d: must be positive", boxSize)
	}

	width := bounds.Dx()
	height := bounds.Dy()
	if boxSize > width || boxSize > height {
		return image.Rectangle{}, errors.Wrapf(ErrBoxTooLarge, "box %d in %dx%d frame", boxSize, width, height)
	}

	startX := (width - boxSize) / 2
	startY := (height - boxSize) / 2
	origin := bounds.Min.Add(image.Pt(startX, startY))

	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(boxSize, boxSize))}, nil
}

// subImager is implemented by every concrete image type in the standard library.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// ExtractCenter returns the centered boxSize x boxSize region of frame.
//
// When the frame supports SubImage the region is a view sharing the frame's
// pixels, valid only as long as the frame is. Other image types are copied with
// imaging.Crop, in which case the returned image starts at (0,0). The rectangle
// is always reported in frame coordinates.
func ExtractCenter(frame image.Image, boxSize int) (image.Image, image.Rectangle, error) {
	rect, err := CenterRect(frame.Bounds(), boxSize)
	if err != nil {
		return nil, image.Rectangle{}, err
	}

	if s, ok := frame.(subImager); ok {
		return s.SubImage(rect), rect, nil
	}
	return imaging.Crop(frame, rect), rect, nil
}

// EncodePNG encodes img as a base64 PNG string.
func EncodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(err, "failed to encode image")
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
