//go:build !gocv

package display

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func openWindows(*zap.SugaredLogger) (Sink, error) {
	return nil, errors.Wrap(ErrNotCompiled, "window (rebuild with -tags gocv)")
}
