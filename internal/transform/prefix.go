package transform

import (
	"context"

	"github.com/valpere/tranhook/internal/protocol"
)

// DefaultMarker is prepended to reasoning titles by the stub transform.
const DefaultMarker = "译: "

// PrefixTransform is the reference stub: it prepends a fixed marker to
// text whose kind matches the configured title kind and passes every
// other kind through unchanged. It performs no real translation and is
// the adapter's default so the binary works without any backend.
type PrefixTransform struct {
	marker    string
	titleKind string
}

// NewPrefix builds the stub transform. Empty arguments select the
// documented defaults: marker "译: ", title kind "agent_reasoning_title".
func NewPrefix(marker, titleKind string) *PrefixTransform {
	if marker == "" {
		marker = DefaultMarker
	}
	if titleKind == "" {
		titleKind = protocol.KindAgentReasoningTitle
	}
	return &PrefixTransform{marker: marker, titleKind: titleKind}
}

func (t *PrefixTransform) Name() string {
	return "prefix"
}

func (t *PrefixTransform) Apply(_ context.Context, req protocol.Request) (string, error) {
	if req.Kind == t.titleKind {
		return t.marker + req.Text, nil
	}
	return req.Text, nil
}
