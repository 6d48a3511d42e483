// Package adapter implements the plugin side of the translation
// contract: read one request from stdin, apply a transform, write one
// response to stdout, exit. Each invocation is an independent process;
// the adapter holds no state across runs.
package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/valpere/tranhook/internal/protocol"
	"github.com/valpere/tranhook/internal/transform"
)

// Exit codes reported to the invoking host. 0 means a well-formed
// response was written; any other value means stdout carries no
// response at all.
const (
	ExitOK                 = 0
	ExitMalformedInput     = 2
	ExitTranslationFailure = 3
	ExitWriteFailure       = 4
)

// Adapter binds a transform to an input and output stream.
type Adapter struct {
	transform transform.Transform
	in        io.Reader
	out       io.Writer
}

// New builds an adapter reading requests from in and writing responses
// to out.
func New(t transform.Transform, in io.Reader, out io.Writer) *Adapter {
	return &Adapter{transform: t, in: in, out: out}
}

// Run processes exactly one request and returns the process exit code
// alongside the error that caused a non-zero code. The response is
// staged in memory and written in one piece only after the transform
// succeeds, so a failure never leaves a partial document on out.
func (a *Adapter) Run(ctx context.Context) (int, error) {
	req, err := protocol.DecodeRequest(a.in)
	if err != nil {
		return ExitMalformedInput, fmt.Errorf("malformed input: %w", err)
	}

	text, err := a.transform.Apply(ctx, req)
	if err != nil {
		return ExitTranslationFailure, fmt.Errorf("transform %s: %w", a.transform.Name(), err)
	}

	var buf bytes.Buffer
	resp := protocol.Response{SchemaVersion: protocol.SchemaVersion, Text: text}
	if err := protocol.EncodeResponse(&buf, resp); err != nil {
		return ExitWriteFailure, err
	}
	if _, err := a.out.Write(buf.Bytes()); err != nil {
		return ExitWriteFailure, fmt.Errorf("write response: %w", err)
	}

	return ExitOK, nil
}
