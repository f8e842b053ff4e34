package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// EnvPrefix prefixes the environment variable of every flag.
const EnvPrefix = "INSPECTOR_"

// Flag names.
const (
	FlagSource        = "source"
	FlagPipeline      = "pipeline"
	FlagPath          = "path"
	FlagLoop          = "loop"
	FlagCaptureWidth  = "capture-width"
	FlagCaptureHeight = "capture-height"
	FlagWidth         = "width"
	FlagHeight        = "height"
	FlagOrientation   = "orientation"
	FlagBoxSize       = "box-size"
	FlagInterval      = "interval"
	FlagFPSWindow     = "fps-window"
	FlagThresholdLow  = "threshold-low"
	FlagThresholdHigh = "threshold-high"
	FlagDetector      = "detector"
	FlagDisplay       = "display"
	FlagSnapshotDir   = "snapshot-dir"
	FlagSnapshotEvery = "snapshot-every"
	FlagLogLevel      = "log-level"
	FlagNoColor       = "no-color"
)

func env(name string) []string {
	return []string{EnvPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))}
}

// Flags returns the command-line flags bound to Config, with defaults from
// Default. Every flag can also be set through its INSPECTOR_ variable.
func Flags() []cli.Flag {
	d := Default()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagSource,
			Usage:   "frame source: files, watch, gocv or gst",
			Value:   string(d.Source.Kind),
			EnvVars: env(FlagSource),
		},
		&cli.StringFlag{
			Name:    FlagPipeline,
			Usage:   "GStreamer description replacing the generated camera pipeline",
			EnvVars: env(FlagPipeline),
		},
		&cli.StringFlag{
			Name:    FlagPath,
			Usage:   "directory or glob of images for the files and watch sources",
			EnvVars: env(FlagPath),
		},
		&cli.BoolFlag{
			Name:    FlagLoop,
			Usage:   "replay the files sequence instead of stopping at its end",
			EnvVars: env(FlagLoop),
		},
		&cli.IntFlag{
			Name:    FlagCaptureWidth,
			Usage:   "camera capture width",
			Value:   d.Source.CaptureWidth,
			EnvVars: env(FlagCaptureWidth),
		},
		&cli.IntFlag{
			Name:    FlagCaptureHeight,
			Usage:   "camera capture height",
			Value:   d.Source.CaptureHeight,
			EnvVars: env(FlagCaptureHeight),
		},
		&cli.IntFlag{
			Name:    FlagWidth,
			Usage:   "width of delivered frames",
			Value:   d.Source.TargetWidth,
			EnvVars: env(FlagWidth),
		},
		&cli.IntFlag{
			Name:    FlagHeight,
			Usage:   "height of delivered frames",
			Value:   d.Source.TargetHeight,
			EnvVars: env(FlagHeight),
		},
		&cli.StringFlag{
			Name:    FlagOrientation,
			Usage:   "frame orientation: none, rotate-180, horizontal-flip or vertical-flip",
			Value:   string(d.Source.Orientation),
			EnvVars: env(FlagOrientation),
		},
		&cli.IntFlag{
			Name:    FlagBoxSize,
			Usage:   "side of the centered inspection box in pixels",
			Value:   d.Inspection.BoxSize,
			EnvVars: env(FlagBoxSize),
		},
		&cli.DurationFlag{
			Name:    FlagInterval,
			Usage:   "minimum time between classification runs",
			Value:   d.Inspection.Interval,
			EnvVars: env(FlagInterval),
		},
		&cli.IntFlag{
			Name:    FlagFPSWindow,
			Usage:   "frames per frame-rate report",
			Value:   d.Inspection.FPSWindow,
			EnvVars: env(FlagFPSWindow),
		},
		&cli.IntFlag{
			Name:    FlagThresholdLow,
			Usage:   "Canny low threshold",
			Value:   d.Inspection.ThresholdLow,
			EnvVars: env(FlagThresholdLow),
		},
		&cli.IntFlag{
			Name:    FlagThresholdHigh,
			Usage:   "Canny high threshold",
			Value:   d.Inspection.ThresholdHigh,
			EnvVars: env(FlagThresholdHigh),
		},
		&cli.StringFlag{
			Name:    FlagDetector,
			Usage:   "shape detector: go, or opencv in gocv builds",
			Value:   string(d.Inspection.Detector),
			EnvVars: env(FlagDetector),
		},
		&cli.StringFlag{
			Name:    FlagDisplay,
			Usage:   "display sink: none, snapshot or window",
			Value:   string(d.Display.Kind),
			EnvVars: env(FlagDisplay),
		},
		&cli.StringFlag{
			Name:    FlagSnapshotDir,
			Usage:   "directory for the snapshot display",
			Value:   d.Display.SnapshotDir,
			EnvVars: env(FlagSnapshotDir),
		},
		&cli.DurationFlag{
			Name:    FlagSnapshotEvery,
			Usage:   "minimum time between two snapshots of the same window",
			Value:   d.Display.SnapshotEvery,
			EnvVars: env(FlagSnapshotEvery),
		},
		&cli.StringFlag{
			Name:    FlagLogLevel,
			Usage:   "log level: debug, info, warn or error",
			Value:   d.LogLevel,
			EnvVars: env(FlagLogLevel),
		},
		&cli.BoolFlag{
			Name:    FlagNoColor,
			Usage:   "print verdicts without colour",
			EnvVars: env(FlagNoColor),
		},
	}
}

// FromContext builds a validated Config from parsed flags.
//
// The returned error wraps every inconsistency but is not a cli.MultiError,
// so App.Run hands it back to the caller instead of exiting.
func FromContext(c *cli.Context) (Config, error) {
	cfg := Config{
		Source: Source{
			Kind:          SourceKind(c.String(FlagSource)),
			Pipeline:      c.String(FlagPipeline),
			Path:          c.String(FlagPath),
			Loop:          c.Bool(FlagLoop),
			CaptureWidth:  c.Int(FlagCaptureWidth),
			CaptureHeight: c.Int(FlagCaptureHeight),
			TargetWidth:   c.Int(FlagWidth),
			TargetHeight:  c.Int(FlagHeight),
			Orientation:   Orientation(c.String(FlagOrientation)),
		},
		Display: Display{
			Kind:          DisplayKind(c.String(FlagDisplay)),
			SnapshotDir:   c.String(FlagSnapshotDir),
			SnapshotEvery: c.Duration(FlagSnapshotEvery),
		},
		Inspection: Inspection{
			BoxSize:       c.Int(FlagBoxSize),
			Interval:      c.Duration(FlagInterval),
			FPSWindow:     c.Int(FlagFPSWindow),
			ThresholdLow:  c.Int(FlagThresholdLow),
			ThresholdHigh: c.Int(FlagThresholdHigh),
			Detector:      DetectorKind(c.String(FlagDetector)),
		},
		LogLevel: c.String(FlagLogLevel),
		NoColor:  c.Bool(FlagNoColor),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
