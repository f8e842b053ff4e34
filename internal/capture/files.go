package capture

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/ironsheep/part-inspector/internal/config"
	inspimg "github.com/ironsheep/part-inspector/internal/imaging"
)

// FileSource replays image files as frames, in lexical order of their paths.
type FileSource struct {
	cfg   config.Source
	paths []string
	next  int
	seq   uint64
	open  bool

	// cache is set when looping, so each file is decoded only once.
	cache *inspimg.ImageCache
}

// NewFileSource lists the frames named by cfg.Path, a directory or a glob.
func NewFileSource(cfg config.Source) (*FileSource, error) {
	paths, err := listFrames(cfg.Path)
	if err != nil {
		return nil, err
	}

	s := &FileSource{cfg: cfg, paths: paths, open: true}
	if cfg.Loop {
		s.cache = inspimg.NewImageCache()
	}
	return s, nil
}

func listFrames(path string) ([]string, error) {
	var candidates []string

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list %s", path)
		}
		for _, e := range entries {
			if !e.IsDir() {
				candidates = append(candidates, filepath.Join(path, e.Name()))
			}
		}
	} else {
		candidates, err = filepath.Glob(path)
		if err != nil {
			return nil, errors.Wrapf(err, "bad pattern %s", path)
		}
	}

	paths := make([]string, 0, len(candidates))
	for _, p := range candidates {
		if inspimg.IsImageFile(p) {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no image files match %s", path)
	}
	sort.Strings(paths)
	return paths, nil
}

// Len returns the number of files in one pass of the sequence.
func (s *FileSource) Len() int {
	return len(s.paths)
}

// Read decodes the next file. Without Loop it returns ErrEndOfStream after
// the last file.
func (s *FileSource) Read(ctx context.Context) (Frame, error) {
	if !s.open {
		return Frame{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if s.next >= len(s.paths) {
		if !s.cfg.Loop {
			return Frame{}, ErrEndOfStream
		}
		s.next = 0
	}

	path := s.paths[s.next]
	s.next++

	img, err := s.load(path)
	if err != nil {
		return Frame{}, errors.Wrapf(ErrReadFailed, "%v", err)
	}

	s.seq++
	return Frame{Seq: s.seq, Time: time.Now(), Image: Normalize(img, s.cfg)}, nil
}

func (s *FileSource) load(path string) (image.Image, error) {
	if s.cache != nil {
		return s.cache.Load(path)
	}
	return inspimg.LoadImage(path)
}

// IsOpen reports whether Close has not been called yet.
func (s *FileSource) IsOpen() bool {
	return s.open
}

// Close releases the cached images.
func (s *FileSource) Close() error {
	s.open = false
	if s.cache != nil {
		s.cache.Clear()
	}
	return nil
}
