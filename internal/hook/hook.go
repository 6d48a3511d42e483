// Package hook runs an external translator plugin and enforces the
// host side of the wire contract: spawn the configured command, feed
// it one request on stdin, collect one response from stdout within a
// deadline, and reject answers that break the schema.
package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/valpere/tranhook/internal/logging"
	"github.com/valpere/tranhook/internal/protocol"
)

// Output ceilings. A plugin that exceeds them is treated as broken and
// its invocation aborted.
const (
	MaxStdoutBytes = 4 * 1024 * 1024
	MaxStderrBytes = 1024 * 1024
)

// Defaults applied when a config leaves the durations unset.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultUIMaxWait = 5 * time.Second
)

const previewMaxChars = 300

// Config describes one resolved translation hook: the command to
// spawn, its deadline, and the language pair stamped on requests.
// UIMaxWait is not enforced here; it bounds how long an interactive
// caller is willing to hold output back waiting for the result.
type Config struct {
	Command        []string
	Timeout        time.Duration
	UIMaxWait      time.Duration
	SourceLanguage string
	TargetLanguage string
}

// Translate sends text to the configured plugin as a request of the
// given kind and returns the trimmed translation. Every failure mode
// maps to one of the typed errors in this package.
func Translate(ctx context.Context, cfg Config, kind, text string) (string, error) {
	if len(cfg.Command) == 0 {
		return "", ErrEmptyCommand
	}

	req := protocol.NewRequest(kind, text, cfg.SourceLanguage, cfg.TargetLanguage)
	payload, err := protocol.EncodeRequest(req)
	if err != nil {
		return "", err
	}

	requestID := uuid.NewString()
	started := time.Now()
	logging.L().Debug("invoking translation plugin",
		"request_id", requestID, "kind", kind, "program", cfg.Command[0])

	stdout, stderr, err := RunCommand(ctx, cfg.Command, payload, cfg.Timeout)
	if err != nil {
		logging.L().Debug("translation plugin failed",
			"request_id", requestID, "error", err, "stderr", Preview(stderr))
		return "", err
	}

	resp, err := protocol.DecodeResponse(stdout)
	if err != nil {
		return "", &InvalidJSONError{StdoutPreview: Preview(stdout), Err: err}
	}
	if resp.SchemaVersion != protocol.SchemaVersion {
		return "", &SchemaMismatchError{Expected: protocol.SchemaVersion, Actual: resp.SchemaVersion}
	}

	translated := strings.TrimSpace(resp.Text)
	if translated == "" {
		return "", ErrEmptyTranslation
	}

	logging.L().Debug("translation plugin succeeded",
		"request_id", requestID, "latency", time.Since(started))
	return translated, nil
}

// RunCommand spawns command with stdin on its standard input and
// returns what it wrote to both streams. The process is killed when
// timeout (DefaultTimeout if zero) or ctx expires. A non-zero exit
// status is returned as an *ExitError; stderr is returned even then so
// callers can log it.
func RunCommand(ctx context.Context, command []string, stdin []byte, timeout time.Duration) ([]byte, []byte, error) {
	if len(command) == 0 {
		return nil, nil, ErrEmptyCommand
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outBuf := &limitedBuffer{stream: "stdout", limit: MaxStdoutBytes}
	errBuf := &limitedBuffer{stream: "stderr", limit: MaxStderrBytes}

	cmd := exec.CommandContext(runCtx, command[0], command[1:]...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = outBuf
	cmd.Stderr = errBuf

	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("spawn translation command: %w", err)
	}

	waitErr := cmd.Wait()

	if outBuf.overflowed {
		return nil, errBuf.Bytes(), &OutputTooLargeError{Stream: outBuf.stream, Limit: outBuf.limit}
	}
	if errBuf.overflowed {
		return outBuf.Bytes(), nil, &OutputTooLargeError{Stream: errBuf.stream, Limit: errBuf.limit}
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, errBuf.Bytes(), &TimeoutError{Timeout: timeout}
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return nil, nil, &ExitError{
				Code:          exitErr.ExitCode(),
				StderrPreview: Preview(errBuf.Bytes()),
				StdoutPreview: Preview(outBuf.Bytes()),
			}
		}
		return nil, errBuf.Bytes(), fmt.Errorf("read translation output: %w", waitErr)
	}

	return outBuf.Bytes(), errBuf.Bytes(), nil
}

// FormatBilingualTitle renders a reasoning title with its translation
// appended in parentheses.
func FormatBilingualTitle(original, translated string) string {
	return original + "(" + translated + ")"
}

// Preview renders up to 300 characters of a plugin stream for
// diagnostics, trimmed, with an ellipsis when truncated.
func Preview(b []byte) string {
	s := strings.TrimSpace(string(b))
	runes := []rune(s)
	if len(runes) <= previewMaxChars {
		return s
	}
	return string(runes[:previewMaxChars]) + "…"
}

// limitedBuffer accumulates stream bytes up to a hard ceiling. The
// first write that would cross it fails, which tears down the copy and
// lets the child die on a closed pipe.
type limitedBuffer struct {
	buf        bytes.Buffer
	stream     string
	limit      int
	overflowed bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.buf.Len()+len(p) > b.limit {
		b.overflowed = true
		return 0, &OutputTooLargeError{Stream: b.stream, Limit: b.limit}
	}
	return b.buf.Write(p)
}

func (b *limitedBuffer) Bytes() []byte { return b.buf.Bytes() }
