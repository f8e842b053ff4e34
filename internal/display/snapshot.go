package display

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// SnapshotSink keeps the latest image of each view as a PNG file, so a
// headless station can be watched from a browser or file share.
//
// Each view is written at most once per interval. The file is written next
// to its final name and renamed into place, so readers never see a partial
// image.
type SnapshotSink struct {
	dir   string
	every time.Duration
	clock clock.Clock

	mu   sync.Mutex
	last map[string]time.Time
}

// NewSnapshotSink creates dir if needed.
func NewSnapshotSink(dir string, every time.Duration, clk clock.Clock) (*SnapshotSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create snapshot directory %s", dir)
	}
	return &SnapshotSink{
		dir:   dir,
		every: every,
		clock: clk,
		last:  make(map[string]time.Time),
	}, nil
}

// Path returns the file written for the view name.
func (s *SnapshotSink) Path(name string) string {
	return filepath.Join(s.dir, fileName(name)+".png")
}

// Show writes img unless the view was written less than one interval ago.
func (s *SnapshotSink) Show(name string, img image.Image) error {
	now := s.clock.Now()

	s.mu.Lock()
	last, ok := s.last[name]
	s.mu.Unlock()
	if ok && now.Sub(last) < s.every {
		return nil
	}

	path := s.Path(name)
	tmp := path + ".tmp.png"
	if err := imaging.Save(img, tmp); err != nil {
		return multierr.Append(errors.Wrapf(err, "failed to save %s", name), removeTemp(tmp))
	}
	if err := os.Rename(tmp, path); err != nil {
		return multierr.Append(errors.Wrapf(err, "failed to publish %s", name), removeTemp(tmp))
	}

	// Only a published snapshot starts the interval; a failed one is retried
	// on the next frame.
	s.mu.Lock()
	s.last[name] = now
	s.mu.Unlock()
	return nil
}

func removeTemp(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove partial snapshot")
	}
	return nil
}

func (s *SnapshotSink) Close() error { return nil }

// fileName turns a view name such as "Central Box" into "central-box".
func fileName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, name)
}
