package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
)

func TestDefault_Valid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"box larger than frame", func(c *Config) { c.Inspection.BoxSize = 301 }},
		{"zero box", func(c *Config) { c.Inspection.BoxSize = 0 }},
		{"zero interval", func(c *Config) { c.Inspection.Interval = 0 }},
		{"zero fps window", func(c *Config) { c.Inspection.FPSWindow = 0 }},
		{"inverted thresholds", func(c *Config) { c.Inspection.ThresholdLow = 250 }},
		{"unknown source", func(c *Config) { c.Source.Kind = "webcam" }},
		{"files without path", func(c *Config) { c.Source.Kind = SourceFiles }},
		{"unknown orientation", func(c *Config) { c.Source.Orientation = "rotate-45" }},
		{"zero target", func(c *Config) { c.Source.TargetWidth = 0 }},
		{"unknown display", func(c *Config) { c.Display.Kind = "hdmi" }},
		{"snapshot without dir", func(c *Config) {
			c.Display.Kind = DisplaySnapshot
			c.Display.SnapshotDir = ""
		}},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }},
		{"unknown detector", func(c *Config) { c.Inspection.Detector = "tensorflow" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error should wrap ErrInvalid: %v", err)
			}
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	c := Default()
	c.Inspection.BoxSize = 301
	c.Inspection.Interval = 0
	c.Source.Kind = "webcam"

	err := c.Validate()
	if got := len(multierr.Errors(err)); got != 3 {
		t.Errorf("got %d errors, want 3: %v", got, err)
	}
	if !strings.Contains(err.Error(), "box size 301") {
		t.Errorf("missing box size message: %v", err)
	}
}

func TestPipelineDescription(t *testing.T) {
	s := Default().Source

	want := "libcamerasrc ! video/x-raw, width=800, height=600 ! videoconvert ! videoscale ! " +
		"video/x-raw, width=400, height=300 ! videoflip method=rotate-180 ! appsink drop=true max_buffers=2"
	if got := s.PipelineDescription(""); got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}

	got := s.PipelineDescription("video/x-raw, format=RGBA")
	if !strings.HasSuffix(got, "videoconvert ! video/x-raw, format=RGBA ! appsink name=sink drop=true max-buffers=2 sync=false") {
		t.Errorf("appsink caps missing: %q", got)
	}

	s.Orientation = OrientNone
	if strings.Contains(s.PipelineDescription(""), "videoflip") {
		t.Error("no videoflip expected without orientation")
	}

	s.Pipeline = "videotestsrc ! appsink"
	if got := s.PipelineDescription("video/x-raw, format=RGBA"); got != "videotestsrc ! appsink" {
		t.Errorf("explicit pipeline should win, got %q", got)
	}
}

// parse runs a throwaway cli.App over args and returns the resulting Config.
func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	var (
		cfg    Config
		cfgErr error
	)
	app := &cli.App{
		Name:  "test",
		Flags: Flags(),
		Action: func(c *cli.Context) error {
			cfg, cfgErr = FromContext(c)
			return nil
		},
	}
	if err := app.Run(append([]string{"test"}, args...)); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
	return cfg, cfgErr
}

func TestFromContext_Defaults(t *testing.T) {
	cfg, err := parse(t)
	if err != nil {
		t.Fatalf("FromContext failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults %+v", cfg, Default())
	}
}

func TestFromContext_FlagsAndEnv(t *testing.T) {
	t.Setenv("INSPECTOR_BOX_SIZE", "150")
	t.Setenv("INSPECTOR_SOURCE", "files")

	cfg, err := parse(t, "--path", "/data/parts", "--interval", "500ms", "--no-color")
	if err != nil {
		t.Fatalf("FromContext failed: %v", err)
	}
	if cfg.Inspection.BoxSize != 150 {
		t.Errorf("BoxSize: got %d, want 150", cfg.Inspection.BoxSize)
	}
	if cfg.Source.Kind != SourceFiles || cfg.Source.Path != "/data/parts" {
		t.Errorf("source: got %+v", cfg.Source)
	}
	if cfg.Inspection.Interval != 500*time.Millisecond {
		t.Errorf("Interval: got %s", cfg.Inspection.Interval)
	}
	if !cfg.NoColor {
		t.Error("NoColor not set")
	}
}

func TestFromContext_Invalid(t *testing.T) {
	_, err := parse(t, "--box-size", "301", "--interval", "0s")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
	// A cli.MultiError returned from an action makes App.Run exit the process.
	if _, ok := err.(cli.MultiError); ok {
		t.Error("validation error must not be a cli.MultiError")
	}
	if !strings.Contains(err.Error(), "box size 301") || !strings.Contains(err.Error(), "detection interval") {
		t.Errorf("every inconsistency should be reported: %v", err)
	}
}

func TestFromContext_Detector(t *testing.T) {
	cfg, err := parse(t, "--detector", "opencv")
	if err != nil {
		t.Fatalf("FromContext failed: %v", err)
	}
	if cfg.Inspection.Detector != DetectorOpenCV {
		t.Errorf("Detector: got %q, want opencv", cfg.Inspection.Detector)
	}
}
