//go:build gst

package capture

import (
	"context"
	"image"
	"time"

	"github.com/pkg/errors"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
	"go.uber.org/multierr"

	"github.com/ironsheep/part-inspector/internal/config"
)

// gstCaps is the raw format requested from the appsink; it maps directly onto
// image.RGBA.
const gstCaps = "video/x-raw, format=RGBA"

// gstSource pulls frames synchronously from the appsink named "sink".
type gstSource struct {
	pipeline *gst.Pipeline
	sink     *app.Sink
	width    int
	height   int
	seq      uint64
	open     bool
}

func openGst(cfg config.Source) (Source, error) {
	gst.Init(nil)

	pipeline, err := gst.NewPipelineFromString(cfg.PipelineDescription(gstCaps))
	if err != nil {
		return nil, errors.Wrap(err, "could not open camera")
	}
	elem, err := pipeline.GetElementByName("sink")
	if err != nil {
		return nil, errors.Wrap(err, "pipeline has no appsink named sink")
	}
	sink := app.SinkFromElement(elem)

	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return nil, multierr.Append(
			errors.Wrap(err, "could not start camera pipeline"),
			errors.Wrap(pipeline.SetState(gst.StateNull), "failed to stop camera pipeline"),
		)
	}

	return &gstSource{
		pipeline: pipeline,
		sink:     sink,
		width:    cfg.TargetWidth,
		height:   cfg.TargetHeight,
		open:     true,
	}, nil
}

func (s *gstSource) Read(ctx context.Context) (Frame, error) {
	if !s.open {
		return Frame{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	sample := s.sink.PullSample()
	if sample == nil {
		if s.sink.IsEOS() {
			return Frame{}, ErrEndOfStream
		}
		return Frame{}, ErrReadFailed
	}

	width, height := s.sampleSize(sample)
	buffer := sample.GetBuffer()
	if buffer == nil {
		return Frame{}, ErrReadFailed
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	defer buffer.Unmap()

	if len(data) < width*height*4 {
		return Frame{}, errors.Wrapf(ErrReadFailed, "short buffer: %d bytes for %dx%d", len(data), width, height)
	}

	// GStreamer reuses the buffer, so the pixels are copied out.
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, data[:width*height*4])

	s.seq++
	return Frame{Seq: s.seq, Time: time.Now(), Image: img}, nil
}

// sampleSize reads the negotiated frame size from the sample caps, falling
// back to the configured target size.
func (s *gstSource) sampleSize(sample *gst.Sample) (int, int) {
	width, height := s.width, s.height
	caps := sample.GetCaps()
	if caps == nil || caps.GetSize() == 0 {
		return width, height
	}
	st := caps.GetStructureAt(0)
	if v, err := st.GetValue("width"); err == nil {
		if w, ok := v.(int); ok {
			width = w
		}
	}
	if v, err := st.GetValue("height"); err == nil {
		if h, ok := v.(int); ok {
			height = h
		}
	}
	return width, height
}

func (s *gstSource) IsOpen() bool {
	return s.open
}

func (s *gstSource) Close() error {
	if !s.open {
		return nil
	}
	s.open = false
	return errors.Wrap(s.pipeline.SetState(gst.StateNull), "failed to stop camera pipeline")
}
