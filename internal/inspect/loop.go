// Package inspect runs the inspection loop: read a frame, profile the color
// of its central box, and at most once per interval classify that color and
// the shapes inside the box.
//
// The loop is single-threaded. All of its state (the throttle, the
// frame-rate meter) lives in the Loop value and is only touched by Run or
// Step, so nothing is locked.
package inspect

import (
	"context"
	"image"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ironsheep/part-inspector/internal/capture"
	"github.com/ironsheep/part-inspector/internal/config"
	"github.com/ironsheep/part-inspector/internal/detection"
	"github.com/ironsheep/part-inspector/internal/display"
	inspimg "github.com/ironsheep/part-inspector/internal/imaging"
)

// colorLabelAt is where the color label is drawn on the region view.
var colorLabelAt = image.Pt(4, inspimg.LabelSize+2)

// Result is the outcome of one iteration.
type Result struct {
	Seq uint64

	// Region is the inspection box in frame coordinates.
	Region image.Rectangle

	// Profile is computed on every frame.
	Profile inspimg.ProfileResult

	// Classified is true when the throttle allowed a classification run.
	// Color and Shapes are only set in that case.
	Classified bool
	Color      inspimg.ColorLabel
	Shapes     []detection.ShapeRecord
}

// Loop owns a source and a display for the duration of Run.
type Loop struct {
	Source   capture.Source
	Display  display.Sink
	Reporter *Reporter
	Clock    clock.Clock

	// Detect finds the shapes of a region; New sets the pure Go detector.
	Detect detection.DetectFunc

	cfg      config.Inspection
	opts     detection.Options
	logger   *zap.SugaredLogger
	runID    string
	throttle Throttle
	meter    FrameRateMeter
}

// New creates a loop. The frame-rate window starts now.
func New(
	src capture.Source,
	sink display.Sink,
	reporter *Reporter,
	clk clock.Clock,
	cfg config.Inspection,
	logger *zap.SugaredLogger,
) *Loop {
	opts := detection.DefaultOptions()
	opts.ThresholdLow = cfg.ThresholdLow
	opts.ThresholdHigh = cfg.ThresholdHigh

	l := &Loop{
		Source:   src,
		Display:  sink,
		Reporter: reporter,
		Clock:    clk,
		Detect:   detection.DetectShapes,
		cfg:      cfg,
		opts:     opts,
		runID:    uuid.NewString(),
		throttle: Throttle{Interval: cfg.Interval},
		meter:    FrameRateMeter{Window: cfg.FPSWindow},
	}
	l.logger = logger.With("run", l.runID)
	l.meter.Start(clk.Now())
	return l
}

// RunID identifies this loop in the logs.
func (l *Loop) RunID() string {
	return l.runID
}

// Run processes frames until the source ends, a read fails, or ctx is done;
// each of these is a normal termination and returns nil. An error is
// returned only when a frame cannot be inspected at all, e.g. when the box
// does not fit in it.
//
// The source and the display are closed before Run returns.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		err = multierr.Append(err, l.close())
	}()

	l.logger.Infow("inspection started", "box", l.cfg.BoxSize, "interval", l.cfg.Interval)
	l.meter.Start(l.Clock.Now())

	for {
		if ctx.Err() != nil {
			l.logger.Infow("inspection stopped", "reason", ctx.Err())
			return nil
		}

		frame, err := l.Source.Read(ctx)
		switch {
		case errors.Is(err, capture.ErrEndOfStream):
			l.logger.Infow("end of stream")
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			l.logger.Infow("inspection stopped", "reason", err)
			return nil
		case err != nil:
			l.Reporter.ReadFailure()
			l.logger.Errorw("read failed", "error", err)
			return nil
		}

		if _, err := l.Step(frame); err != nil {
			return err
		}
	}
}

// Step inspects one frame.
func (l *Loop) Step(frame capture.Frame) (Result, error) {
	now := l.Clock.Now()

	region, rect, err := inspimg.ExtractCenter(frame.Image, l.cfg.BoxSize)
	if err != nil {
		l.show(display.ViewCamera, frame.Image)
		return Result{}, errors.Wrapf(err, "frame %d", frame.Seq)
	}
	l.showCamera(frame.Image, rect)

	res := Result{
		Seq:     frame.Seq,
		Region:  rect,
		Profile: inspimg.ProfileRegion(region),
	}

	view := region
	if l.throttle.Ready(now) {
		if err := l.classify(region, &res); err != nil {
			return res, err
		}
		l.throttle.Mark(now)
		view = l.annotate(region, res)
	}
	l.show(display.ViewRegion, view)

	if rate, ok := l.meter.Tick(now); ok {
		l.Reporter.FrameRate(rate)
		l.logger.Debugw("frame rate", "frames", rate.Frames, "elapsed", rate.Elapsed, "fps", rate.FPS())
	}
	return res, nil
}

func (l *Loop) classify(region image.Image, res *Result) error {
	res.Classified = true

	if res.Profile.Empty() {
		l.Reporter.NoColorData()
	} else {
		res.Color = inspimg.ClassifyColor(res.Profile.Mean)
		l.Reporter.Color(res.Color)
	}

	shapes, err := l.Detect(region, l.opts)
	if err != nil {
		return err
	}
	res.Shapes = shapes.Shapes
	for _, s := range res.Shapes {
		l.Reporter.Shape(s)
	}

	l.logger.Debugw("inspection cycle",
		"seq", res.Seq,
		"color", res.Color,
		"mean", res.Profile.Mean,
		"included", res.Profile.Included,
		"shapes", len(res.Shapes),
	)
	return nil
}

// annotate labels a copy of the region; the frame itself is never drawn on.
func (l *Loop) annotate(region image.Image, res Result) image.Image {
	labels := make([]inspimg.Label, 0, len(res.Shapes)+1)
	if !res.Profile.Empty() {
		labels = append(labels, inspimg.Label{Text: res.Color.String(), At: colorLabelAt})
	}
	for _, s := range res.Shapes {
		labels = append(labels, inspimg.Label{Text: s.Shape.String(), At: s.Anchor()})
	}
	if len(labels) == 0 {
		return region
	}
	return inspimg.Annotate(region, labels)
}

// showCamera shows the frame with the inspection box outlined. A Nop display
// skips the copy.
func (l *Loop) showCamera(frame image.Image, rect image.Rectangle) {
	if _, ok := l.Display.(display.Nop); ok {
		return
	}
	l.show(display.ViewCamera, inspimg.OutlineBox(frame, rect, inspimg.BoxColor))
}

// show is fire and forget; a failing display never stops the inspection.
func (l *Loop) show(name string, img image.Image) {
	if err := l.Display.Show(name, img); err != nil {
		l.logger.Warnw("display failed", "view", name, "error", err)
	}
}

func (l *Loop) close() error {
	return multierr.Combine(
		errors.Wrap(l.Source.Close(), "failed to release source"),
		errors.Wrap(l.Display.Close(), "failed to close display"),
	)
}
