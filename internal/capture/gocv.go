//go:build gocv

package capture

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gocv.io/x/gocv"

	"github.com/ironsheep/part-inspector/internal/config"
)

// gocvSource reads the camera pipeline through OpenCV's GStreamer backend.
type gocvSource struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
	seq     uint64
	open    bool
}

func openGoCV(cfg config.Source) (Source, error) {
	capture, err := gocv.OpenVideoCaptureWithAPI(cfg.PipelineDescription(""), gocv.VideoCaptureGstreamer)
	if err != nil {
		return nil, errors.Wrap(err, "could not open camera")
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, errors.New("could not open camera")
	}
	return &gocvSource{capture: capture, mat: gocv.NewMat(), open: true}, nil
}

func (s *gocvSource) Read(ctx context.Context) (Frame, error) {
	if !s.open {
		return Frame{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if ok := s.capture.Read(&s.mat); !ok || s.mat.Empty() {
		return Frame{}, ErrReadFailed
	}

	// ToImage copies the pixels, so the Mat can be reused for the next frame.
	img, err := s.mat.ToImage()
	if err != nil {
		return Frame{}, errors.Wrapf(ErrReadFailed, "%v", err)
	}

	s.seq++
	return Frame{Seq: s.seq, Time: time.Now(), Image: img}, nil
}

func (s *gocvSource) IsOpen() bool {
	return s.open && s.capture.IsOpened()
}

func (s *gocvSource) Close() error {
	if !s.open {
		return nil
	}
	s.open = false
	matErr := s.mat.Close()
	return errors.Wrap(multierr.Append(s.capture.Close(), matErr), "failed to release camera")
}
