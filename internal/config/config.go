// Package config holds the inspector's settings, their defaults and the
// consistency checks run once at startup.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ErrInvalid marks every configuration inconsistency reported by Validate.
var ErrInvalid = errors.New("invalid configuration")

// SourceKind selects the frame source backend.
type SourceKind string

const (
	SourceFiles SourceKind = "files"
	SourceWatch SourceKind = "watch"
	SourceGoCV  SourceKind = "gocv"
	SourceGst   SourceKind = "gst"
)

// DisplayKind selects where frames and regions are shown.
type DisplayKind string

const (
	DisplayNone     DisplayKind = "none"
	DisplaySnapshot DisplayKind = "snapshot"
	DisplayWindow   DisplayKind = "window"
)

// DetectorKind selects the shape detector.
type DetectorKind string

const (
	DetectorGo     DetectorKind = "go"
	DetectorOpenCV DetectorKind = "opencv"
)

// Orientation is applied to every captured frame. The names are those of the
// GStreamer videoflip element.
type Orientation string

const (
	OrientNone           Orientation = "none"
	OrientRotate180      Orientation = "rotate-180"
	OrientHorizontalFlip Orientation = "horizontal-flip"
	OrientVerticalFlip   Orientation = "vertical-flip"
)

// Source describes how frames are acquired.
type Source struct {
	Kind SourceKind

	// Pipeline replaces the generated GStreamer description when set.
	Pipeline string

	// Path is the directory or glob read by the files and watch sources.
	Path string

	// Loop replays a files sequence forever instead of ending the stream.
	Loop bool

	// CaptureWidth and CaptureHeight are requested from the camera.
	CaptureWidth  int
	CaptureHeight int

	// TargetWidth and TargetHeight are the size of every delivered frame.
	TargetWidth  int
	TargetHeight int

	Orientation Orientation
}

// Display describes the optional visual output.
type Display struct {
	Kind DisplayKind

	// SnapshotDir receives one PNG per window name.
	SnapshotDir string

	// SnapshotEvery limits how often a snapshot file is rewritten.
	SnapshotEvery time.Duration
}

// Inspection holds the classification constants.
type Inspection struct {
	// BoxSize is the side of the centered inspection square in pixels.
	BoxSize int

	// Interval is the minimum time between two classification runs.
	Interval time.Duration

	// FPSWindow is the number of frames per frame-rate report.
	FPSWindow int

	// ThresholdLow and ThresholdHigh are the Canny hysteresis thresholds.
	ThresholdLow  int
	ThresholdHigh int

	// Detector is the shape detector backend.
	Detector DetectorKind
}

// Config is the complete inspector configuration.
type Config struct {
	Source     Source
	Display    Display
	Inspection Inspection

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// NoColor disables coloured verdicts on the console.
	NoColor bool
}

// Default returns the settings of the production inspection line: an 800x600
// camera scaled to 400x300 and rotated 180°, a 200 pixel box classified at
// most once per second.
func Default() Config {
	return Config{
		Source: Source{
			Kind:          SourceGoCV,
			CaptureWidth:  800,
			CaptureHeight: 600,
			TargetWidth:   400,
			TargetHeight:  300,
			Orientation:   OrientRotate180,
		},
		Display: Display{
			Kind:          DisplayNone,
			SnapshotDir:   "snapshots",
			SnapshotEvery: time.Second,
		},
		Inspection: Inspection{
			BoxSize:       200,
			Interval:      time.Second,
			FPSWindow:     30,
			ThresholdLow:  100,
			ThresholdHigh: 200,
			Detector:      DetectorGo,
		},
		LogLevel: "info",
	}
}

// Validate reports every inconsistency at once. Each reported error wraps
// ErrInvalid.
func (c Config) Validate() error {
	var err error
	invalid := func(format string, args ...interface{}) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalid, format, args...))
	}

	s := c.Source
	switch s.Kind {
	case SourceFiles, SourceWatch:
		if s.Path == "" {
			invalid("source %s needs a path", s.Kind)
		}
	case SourceGoCV, SourceGst:
	default:
		invalid("unknown source %q", s.Kind)
	}
	if s.TargetWidth <= 0 || s.TargetHeight <= 0 {
		invalid("target size %dx%d must be positive", s.TargetWidth, s.TargetHeight)
	}
	if s.CaptureWidth <= 0 || s.CaptureHeight <= 0 {
		invalid("capture size %dx%d must be positive", s.CaptureWidth, s.CaptureHeight)
	}
	switch s.Orientation {
	case OrientNone, OrientRotate180, OrientHorizontalFlip, OrientVerticalFlip:
	default:
		invalid("unknown orientation %q", s.Orientation)
	}

	switch c.Display.Kind {
	case DisplayNone, DisplayWindow:
	case DisplaySnapshot:
		if c.Display.SnapshotDir == "" {
			invalid("snapshot display needs a directory")
		}
	default:
		invalid("unknown display %q", c.Display.Kind)
	}
	if c.Display.SnapshotEvery < 0 {
		invalid("snapshot interval %s must not be negative", c.Display.SnapshotEvery)
	}

	in := c.Inspection
	if in.BoxSize <= 0 {
		invalid("box size %d must be positive", in.BoxSize)
	} else if in.BoxSize > s.TargetWidth || in.BoxSize > s.TargetHeight {
		invalid("box size %d does not fit a %dx%d frame", in.BoxSize, s.TargetWidth, s.TargetHeight)
	}
	if in.Interval <= 0 {
		invalid("detection interval %s must be positive", in.Interval)
	}
	if in.FPSWindow <= 0 {
		invalid("frame-rate window %d must be positive", in.FPSWindow)
	}
	if in.ThresholdLow < 0 || in.ThresholdLow > in.ThresholdHigh {
		invalid("edge thresholds %d/%d must satisfy 0 <= low <= high", in.ThresholdLow, in.ThresholdHigh)
	}
	switch in.Detector {
	case DetectorGo, DetectorOpenCV:
	default:
		invalid("unknown detector %q", in.Detector)
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		invalid("unknown log level %q", c.LogLevel)
	}

	return err
}

// PipelineDescription returns the GStreamer description of the camera
// pipeline, ending in an appsink.
//
// The OpenCV backend negotiates its own pixel format, so sinkCaps is empty
// there. The go-gst backend passes the caps it decodes, e.g.
// "video/x-raw, format=RGBA", and reads from the appsink named "sink".
func (s Source) PipelineDescription(sinkCaps string) string {
	if s.Pipeline != "" {
		return s.Pipeline
	}

	parts := []string{
		"libcamerasrc",
		fmt.Sprintf("video/x-raw, width=%d, height=%d", s.CaptureWidth, s.CaptureHeight),
		"videoconvert",
		"videoscale",
		fmt.Sprintf("video/x-raw, width=%d, height=%d", s.TargetWidth, s.TargetHeight),
	}
	if s.Orientation != OrientNone && s.Orientation != "" {
		parts = append(parts, "videoflip method="+string(s.Orientation))
	}
	if sinkCaps != "" {
		parts = append(parts, "videoconvert", sinkCaps, "appsink name=sink drop=true max-buffers=2 sync=false")
	} else {
		parts = append(parts, "appsink drop=true max_buffers=2")
	}
	return strings.Join(parts, " ! ")
}
