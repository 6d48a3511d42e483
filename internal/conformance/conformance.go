// Package conformance checks a translator adapter command against the
// wire contract: well-formed requests must yield exactly one response
// document with the right schema and text, malformed input must be
// rejected with a non-zero exit and no response.
package conformance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/valpere/tranhook/internal/hook"
	"github.com/valpere/tranhook/internal/protocol"
)

// DefaultCaseTimeout bounds one adapter invocation during a check.
const DefaultCaseTimeout = 10 * time.Second

// Case is one contract check. Input is fed to the adapter's stdin
// verbatim, so it can be deliberately malformed.
//
// Exactly one expectation applies: WantFailure demands a non-zero exit
// with no response document; WantText demands a response with that
// exact text; neither demands only a well-formed response. Chain
// additionally feeds the response text back in a second, otherwise
// identical request and requires the same text again.
type Case struct {
	Name        string  `yaml:"name"`
	Input       string  `yaml:"input"`
	WantText    *string `yaml:"want_text,omitempty"`
	WantFailure bool    `yaml:"want_failure,omitempty"`
	Chain       bool    `yaml:"chain,omitempty"`
}

// Result is the outcome of one case.
type Result struct {
	Case    Case
	Passed  bool
	Detail  string
	Latency time.Duration
}

// Summary aggregates a run, results in case order.
type Summary struct {
	Results []Result
	Passed  int
	Failed  int
}

// Options tunes a run.
type Options struct {
	Timeout time.Duration
}

// Run executes every case against command, one adapter process per
// case, all cases in parallel. Each invocation is independent by
// contract, so concurrent runs cannot interfere.
func Run(ctx context.Context, command []string, cases []Case, opts Options) *Summary {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultCaseTimeout
	}

	type indexed struct {
		index  int
		result Result
	}
	results := make(chan indexed, len(cases))

	var wg sync.WaitGroup
	for i, c := range cases {
		wg.Add(1)
		go func(index int, c Case) {
			defer wg.Done()
			started := time.Now()
			passed, detail := runCase(ctx, command, c, timeout)
			results <- indexed{index: index, result: Result{
				Case:    c,
				Passed:  passed,
				Detail:  detail,
				Latency: time.Since(started),
			}}
		}(i, c)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := &Summary{Results: make([]Result, len(cases))}
	for r := range results {
		summary.Results[r.index] = r.result
		if r.result.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	return summary
}

func runCase(ctx context.Context, command []string, c Case, timeout time.Duration) (bool, string) {
	stdout, _, err := hook.RunCommand(ctx, command, []byte(c.Input), timeout)

	if c.WantFailure {
		if err == nil {
			return false, fmt.Sprintf("expected a non-zero exit, got a response: %s", hook.Preview(stdout))
		}
		var exitErr *hook.ExitError
		if errors.As(err, &exitErr) {
			return true, fmt.Sprintf("rejected with exit code %d", exitErr.Code)
		}
		return false, fmt.Sprintf("expected a plain non-zero exit, got: %v", err)
	}

	if err != nil {
		return false, err.Error()
	}

	resp, detail, ok := checkResponse(stdout)
	if !ok {
		return false, detail
	}

	if c.WantText != nil {
		if resp.Text != *c.WantText {
			return false, fmt.Sprintf("expected text %q, got %q", *c.WantText, resp.Text)
		}
		if !isASCII(*c.WantText) && !bytes.Contains(stdout, []byte(*c.WantText)) {
			return false, "non-ASCII text was escaped instead of emitted literally"
		}
	}

	if c.Chain {
		return runChain(ctx, command, c, resp.Text, timeout)
	}

	return true, "ok"
}

// runChain replays the case with the first response's text substituted
// into the request and requires the adapter to answer identically.
func runChain(ctx context.Context, command []string, c Case, firstText string, timeout time.Duration) (bool, string) {
	var req map[string]any
	if err := json.Unmarshal([]byte(c.Input), &req); err != nil {
		return false, fmt.Sprintf("chain case input must be a JSON object: %v", err)
	}
	req["text"] = firstText

	again, err := json.Marshal(req)
	if err != nil {
		return false, fmt.Sprintf("encode chained request: %v", err)
	}

	stdout, _, err := hook.RunCommand(ctx, command, again, timeout)
	if err != nil {
		return false, fmt.Sprintf("chained invocation failed: %v", err)
	}

	resp, detail, ok := checkResponse(stdout)
	if !ok {
		return false, detail
	}
	if resp.Text != firstText {
		return false, fmt.Sprintf("expected stable text %q, got %q on the second pass", firstText, resp.Text)
	}
	return true, "ok"
}

// checkResponse validates the document shape: valid JSON, exactly the
// two contract keys, schema version 1.
func checkResponse(stdout []byte) (protocol.Response, string, bool) {
	resp, err := protocol.DecodeResponse(stdout)
	if err != nil {
		return protocol.Response{}, fmt.Sprintf("invalid response: %v (stdout: %s)", err, hook.Preview(stdout)), false
	}
	if resp.SchemaVersion != protocol.SchemaVersion {
		return protocol.Response{}, fmt.Sprintf("expected schema_version %d, got %d", protocol.SchemaVersion, resp.SchemaVersion), false
	}

	var keys map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &keys); err != nil {
		return protocol.Response{}, fmt.Sprintf("response is not a single JSON object: %v", err), false
	}
	if len(keys) != 2 {
		return protocol.Response{}, fmt.Sprintf("expected exactly 2 response keys, got %d", len(keys)), false
	}

	return resp, "", true
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
