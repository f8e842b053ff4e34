//go:build !gocv

package capture

import (
	"github.com/pkg/errors"

	"github.com/ironsheep/part-inspector/internal/config"
)

func openGoCV(config.Source) (Source, error) {
	return nil, errors.Wrap(ErrNotCompiled, "gocv (rebuild with -tags gocv)")
}
