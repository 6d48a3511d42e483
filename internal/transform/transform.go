// Package transform defines the pluggable text transformation applied
// by the translator adapter. The wire contract stays fixed while the
// transform behind it is swapped: the default prefix transform
// reproduces the documented stub behavior, the others call real
// translation backends.
package transform

import (
	"context"

	"github.com/valpere/tranhook/internal/protocol"
)

// Transform turns request text into response text. Implementations
// must be safe for a single invocation; the adapter never calls Apply
// concurrently.
type Transform interface {
	Name() string
	Apply(ctx context.Context, req protocol.Request) (string, error)
}
