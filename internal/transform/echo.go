package transform

import (
	"context"

	"github.com/valpere/tranhook/internal/protocol"
)

// EchoTransform returns request text unchanged regardless of kind.
// Useful for exercising the wire contract without touching the text.
type EchoTransform struct{}

func NewEcho() *EchoTransform {
	return &EchoTransform{}
}

func (t *EchoTransform) Name() string {
	return "echo"
}

func (t *EchoTransform) Apply(_ context.Context, req protocol.Request) (string, error) {
	return req.Text, nil
}
