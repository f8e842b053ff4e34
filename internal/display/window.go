//go:build gocv

package display

import (
	"image"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// windowSink shows each view in its own OpenCV HighGUI window.
type windowSink struct {
	logger  *zap.SugaredLogger
	windows map[string]*gocv.Window
}

func openWindows(logger *zap.SugaredLogger) (Sink, error) {
	return &windowSink{logger: logger, windows: make(map[string]*gocv.Window)}, nil
}

func (s *windowSink) Show(name string, img image.Image) error {
	w, ok := s.windows[name]
	if !ok {
		w = gocv.NewWindow(name)
		s.windows[name] = w
		s.logger.Debugw("window opened", "name", name)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return errors.Wrapf(err, "failed to convert %s", name)
	}
	defer mat.Close()

	w.IMShow(mat)
	// HighGUI only repaints while waiting for a key.
	w.WaitKey(1)
	return nil
}

func (s *windowSink) Close() error {
	var err error
	for name, w := range s.windows {
		err = multierr.Append(err, w.Close())
		delete(s.windows, name)
	}
	return err
}
