// Package display presents the camera frame and the annotated inspection
// region.
//
// The inspection loop calls Show once per frame for each named view. A sink
// may render, save, or drop the image; Show never blocks the loop for long
// and never keeps a reference to img after it returns.
package display

import (
	"image"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/part-inspector/internal/config"
)

// View names shown by the inspection loop.
const (
	ViewCamera = "Camera"
	ViewRegion = "Central Box"
)

// ErrNotCompiled is returned by Open for sinks left out of the build.
var ErrNotCompiled = errors.New("display not compiled in")

// Sink receives named views.
type Sink interface {
	Show(name string, img image.Image) error
	Close() error
}

// Nop discards every view.
type Nop struct{}

func (Nop) Show(string, image.Image) error { return nil }
func (Nop) Close() error                   { return nil }

// Open creates the sink selected by cfg.Kind.
func Open(cfg config.Display, clk clock.Clock, logger *zap.SugaredLogger) (Sink, error) {
	switch cfg.Kind {
	case config.DisplayNone, "":
		return Nop{}, nil
	case config.DisplaySnapshot:
		sink, err := NewSnapshotSink(cfg.SnapshotDir, cfg.SnapshotEvery, clk)
		if err != nil {
			return nil, err
		}
		logger.Infow("writing snapshots", "dir", cfg.SnapshotDir, "every", cfg.SnapshotEvery)
		return sink, nil
	case config.DisplayWindow:
		return openWindows(logger)
	}
	return nil, errors.Errorf("unknown display %q", cfg.Kind)
}
