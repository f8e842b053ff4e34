//go:build !gocv

package detection

import "github.com/pkg/errors"

func openCVDetector() (DetectFunc, error) {
	return nil, errors.Wrap(ErrNotCompiled, "opencv (rebuild with -tags gocv)")
}
