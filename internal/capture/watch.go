package capture

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/part-inspector/internal/config"
	inspimg "github.com/ironsheep/part-inspector/internal/imaging"
)

// WatchSource turns image files written into a directory into frames, for
// stations where an external grabber drops stills into a spool directory.
//
// Files are picked up on create and write events. A file that cannot be
// decoded yet, typically because it is still being written, is skipped and
// retried on its next write event.
type WatchSource struct {
	cfg     config.Source
	logger  *zap.SugaredLogger
	watcher *fsnotify.Watcher
	paths   chan string
	done    chan struct{}
	seq     uint64

	mu     sync.Mutex
	closed bool
}

// NewWatchSource starts watching the directory cfg.Path.
func NewWatchSource(cfg config.Source, logger *zap.SugaredLogger) (*WatchSource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create watcher")
	}
	if err := watcher.Add(cfg.Path); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", cfg.Path)
	}

	s := &WatchSource{
		cfg:     cfg,
		logger:  logger,
		watcher: watcher,
		paths:   make(chan string, 16),
		done:    make(chan struct{}),
	}
	go s.forward()
	return s, nil
}

// forward relays image file events until the watcher is closed.
func (s *WatchSource) forward() {
	defer close(s.done)
	defer close(s.paths)

	for {
		select {
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !inspimg.IsImageFile(ev.Name) {
				continue
			}
			select {
			case s.paths <- ev.Name:
			default:
				s.logger.Debugw("dropping file event, reader is behind", "path", ev.Name)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warnw("watch error", "error", err)
		}
	}
}

// Read blocks until a new image file decodes. It returns ErrEndOfStream once
// the source is closed.
func (s *WatchSource) Read(ctx context.Context) (Frame, error) {
	for {
		select {
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		case path, ok := <-s.paths:
			if !ok {
				return Frame{}, ErrEndOfStream
			}
			img, err := inspimg.LoadImage(path)
			if err != nil {
				s.logger.Debugw("skipping unreadable file", "path", path, "error", err)
				continue
			}
			s.seq++
			return Frame{Seq: s.seq, Time: time.Now(), Image: Normalize(img, s.cfg)}, nil
		}
	}
}

// IsOpen reports whether Close has not been called yet.
func (s *WatchSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Close stops the watcher and ends the stream.
func (s *WatchSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.watcher.Close()
	<-s.done
	return errors.Wrap(err, "failed to close watcher")
}
