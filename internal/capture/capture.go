// Package capture delivers frames to the inspection loop.
//
// A Source is opened once at startup and read synchronously, one frame per
// loop iteration. Four backends exist:
//
//   - files: an ordered sequence of image files, optionally replayed
//   - watch: image files as they appear in a directory
//   - gocv: a GStreamer camera pipeline read through OpenCV (build tag gocv)
//   - gst: a GStreamer camera pipeline read through an appsink (build tag gst)
//
// Binaries built without a backend's tag report ErrNotCompiled when it is
// selected.
package capture

import (
	"context"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/part-inspector/internal/config"
)

var (
	// ErrEndOfStream is returned by Read once a source has no more frames.
	ErrEndOfStream = errors.New("end of stream")

	// ErrReadFailed is returned by Read when the device produced no frame.
	ErrReadFailed = errors.New("could not read a frame")

	// ErrNotCompiled is returned by Open for backends left out of the build.
	ErrNotCompiled = errors.New("backend not compiled in")

	// ErrClosed is returned by Read after Close.
	ErrClosed = errors.New("source closed")
)

// Frame is one captured image. Image must not be modified by consumers.
type Frame struct {
	Seq   uint64
	Time  time.Time
	Image image.Image
}

// Source produces frames.
type Source interface {
	// Read blocks until the next frame is available. It returns
	// ErrEndOfStream when the source is exhausted.
	Read(ctx context.Context) (Frame, error)

	// IsOpen reports whether Read may still succeed.
	IsOpen() bool

	// Close releases the device. It is safe to call more than once.
	Close() error
}

// Open creates the source selected by cfg.Kind. Any error means the device
// could not be acquired.
func Open(cfg config.Source, logger *zap.SugaredLogger) (Source, error) {
	var (
		src Source
		err error
	)
	switch cfg.Kind {
	case config.SourceFiles:
		src, err = NewFileSource(cfg)
	case config.SourceWatch:
		src, err = NewWatchSource(cfg, logger)
	case config.SourceGoCV:
		src, err = openGoCV(cfg)
	case config.SourceGst:
		src, err = openGst(cfg)
	default:
		err = errors.Errorf("unknown source %q", cfg.Kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s source", cfg.Kind)
	}

	logger.Debugw("source opened", "kind", cfg.Kind, "path", cfg.Path)
	return src, nil
}

// Normalize resizes img to the target size of cfg and applies its
// orientation, doing for file frames what the camera pipeline does for
// camera frames. The result starts at (0,0).
func Normalize(img image.Image, cfg config.Source) image.Image {
	b := img.Bounds()
	if cfg.TargetWidth > 0 && cfg.TargetHeight > 0 &&
		(b.Dx() != cfg.TargetWidth || b.Dy() != cfg.TargetHeight) {
		img = imaging.Resize(img, cfg.TargetWidth, cfg.TargetHeight, imaging.Linear)
	}

	switch cfg.Orientation {
	case config.OrientRotate180:
		return imaging.Rotate180(img)
	case config.OrientHorizontalFlip:
		return imaging.FlipH(img)
	case config.OrientVerticalFlip:
		return imaging.FlipV(img)
	}
	if img.Bounds().Min != (image.Point{}) {
		return imaging.Clone(img)
	}
	return img
}
