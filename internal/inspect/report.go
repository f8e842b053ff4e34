package inspect

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ironsheep/part-inspector/internal/detection"
	inspimg "github.com/ironsheep/part-inspector/internal/imaging"
)

// Reporter writes the operator-facing console lines.
type Reporter struct {
	out  io.Writer
	good *color.Color
	bad  *color.Color
}

// NewReporter writes to out. Verdicts are coloured unless noColor is set or
// stdout is not a terminal.
func NewReporter(out io.Writer, noColor bool) *Reporter {
	good := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)
	if noColor {
		good.DisableColor()
		bad.DisableColor()
	}
	return &Reporter{out: out, good: good, bad: bad}
}

// Color reports the region's color label.
func (r *Reporter) Color(label inspimg.ColorLabel) {
	fmt.Fprintf(r.out, "Detected color: %s\n", label)
}

// NoColorData reports a region with no pixel left after masking.
func (r *Reporter) NoColorData() {
	fmt.Fprintln(r.out, "Detected color: no color data")
}

// Shape reports one shape and its verdict.
func (r *Reporter) Shape(s detection.ShapeRecord) {
	verdict := r.bad
	if s.Quality == detection.GoodPart {
		verdict = r.good
	}
	fmt.Fprintf(r.out, "Detected shape: %s\n", s.Shape)
	fmt.Fprintf(r.out, "Good or bad part? %s\n", verdict.Sprint(s.Quality))
}

// FrameRate reports one frame-rate window.
func (r *Reporter) FrameRate(rate FrameRate) {
	fmt.Fprintf(r.out, "%d frames in %f seconds = %f FPS\n", rate.Frames, rate.Elapsed.Seconds(), rate.FPS())
}

// ReadFailure reports that the source stopped producing frames.
func (r *Reporter) ReadFailure() {
	fmt.Fprintln(r.out, "Could not read a frame.")
}
