package inspect

import "time"

// FrameRate is the measurement of one window of frames.
type FrameRate struct {
	Frames  int
	Elapsed time.Duration
}

// FPS returns frames per second, or 0 if no time elapsed.
func (r FrameRate) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

// FrameRateMeter counts frames in fixed windows. It is observational only.
type FrameRateMeter struct {
	Window int

	count int
	start time.Time
}

// Start begins a new window at now.
func (m *FrameRateMeter) Start(now time.Time) {
	m.count = 0
	m.start = now
}

// Tick counts one frame. When the window is full it returns the measurement
// and starts the next window at now.
func (m *FrameRateMeter) Tick(now time.Time) (FrameRate, bool) {
	m.count++
	if m.count < m.Window {
		return FrameRate{}, false
	}

	rate := FrameRate{Frames: m.count, Elapsed: now.Sub(m.start)}
	m.Start(now)
	return rate, true
}
