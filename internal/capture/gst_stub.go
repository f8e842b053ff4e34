//go:build !gst

package capture

import (
	"github.com/pkg/errors"

	"github.com/ironsheep/part-inspector/internal/config"
)

func openGst(config.Source) (Source, error) {
	return nil, errors.Wrap(ErrNotCompiled, "gst (rebuild with -tags gst)")
}
