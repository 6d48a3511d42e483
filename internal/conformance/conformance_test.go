package conformance

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func shAdapter(script string) []string {
	return []string{"sh", "-c", script}
}

func runOne(t *testing.T, command []string, c Case) Result {
	t.Helper()
	summary := Run(context.Background(), command, []Case{c}, Options{Timeout: 5 * time.Second})
	if len(summary.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(summary.Results))
	}
	return summary.Results[0]
}

func TestRun_ExactTextMatch(t *testing.T) {
	adapter := shAdapter(`cat >/dev/null; echo '{"schema_version":1,"text":"hello"}'`)

	r := runOne(t, adapter, Case{Name: "match", Input: `{"text":"hello"}`, WantText: stringPtr("hello")})
	if !r.Passed {
		t.Errorf("expected pass, got: %s", r.Detail)
	}

	r = runOne(t, adapter, Case{Name: "mismatch", Input: `{"text":"other"}`, WantText: stringPtr("other")})
	if r.Passed {
		t.Error("expected failure for wrong text")
	}
	if !strings.Contains(r.Detail, "expected text") {
		t.Errorf("expected text mismatch detail, got %q", r.Detail)
	}
}

func TestRun_ShapeOnlyCase(t *testing.T) {
	adapter := shAdapter(`cat >/dev/null; echo '{"schema_version":1,"text":"whatever"}'`)

	r := runOne(t, adapter, Case{Name: "shape", Input: `{"text":"x"}`})
	if !r.Passed {
		t.Errorf("expected pass for any well-formed response, got: %s", r.Detail)
	}
}

func TestRun_RejectsExtraResponseKeys(t *testing.T) {
	adapter := shAdapter(`cat >/dev/null; echo '{"schema_version":1,"text":"hi","debug":true}'`)

	r := runOne(t, adapter, Case{Name: "extra keys", Input: `{"text":"hi"}`})
	if r.Passed {
		t.Error("expected failure for a response with extra keys")
	}
	if !strings.Contains(r.Detail, "2 response keys") {
		t.Errorf("expected key-count detail, got %q", r.Detail)
	}
}

func TestRun_RejectsWrongSchemaVersion(t *testing.T) {
	adapter := shAdapter(`cat >/dev/null; echo '{"schema_version":2,"text":"hi"}'`)

	r := runOne(t, adapter, Case{Name: "schema", Input: `{"text":"hi"}`})
	if r.Passed {
		t.Error("expected failure for schema_version 2")
	}
}

func TestRun_WantFailure(t *testing.T) {
	rejecting := shAdapter(`cat >/dev/null; echo 'malformed input' >&2; exit 2`)
	r := runOne(t, rejecting, Case{Name: "rejects", Input: `{not json`, WantFailure: true})
	if !r.Passed {
		t.Errorf("expected pass for rejecting adapter, got: %s", r.Detail)
	}

	accepting := shAdapter(`cat >/dev/null; echo '{"schema_version":1,"text":"fabricated"}'`)
	r = runOne(t, accepting, Case{Name: "accepts garbage", Input: `{not json`, WantFailure: true})
	if r.Passed {
		t.Error("expected failure when the adapter answers malformed input")
	}
}

func TestRun_Chain(t *testing.T) {
	// A constant adapter is trivially stable, so the chain must pass.
	stable := shAdapter(`cat >/dev/null; echo '{"schema_version":1,"text":"same"}'`)
	r := runOne(t, stable, Case{Name: "chain", Input: `{"text":"same","kind":"other"}`, WantText: stringPtr("same"), Chain: true})
	if !r.Passed {
		t.Errorf("expected chained pass, got: %s", r.Detail)
	}

	// An adapter that appends per call is not idempotent.
	unstable := shAdapter(`input=$(cat); printf '{"schema_version":1,"text":"%s!"}' "$(printf '%s' "$input" | sed 's/.*"text":"\([^"]*\)".*/\1/')"`)
	r = runOne(t, unstable, Case{Name: "chain", Input: `{"text":"x","kind":"other"}`, Chain: true})
	if r.Passed {
		t.Error("expected chained failure for a text-mutating adapter")
	}
}

func TestRun_SummaryCountsAndOrder(t *testing.T) {
	adapter := shAdapter(`cat >/dev/null; echo '{"schema_version":1,"text":"hello"}'`)
	cases := []Case{
		{Name: "first", Input: `{"text":"hello"}`, WantText: stringPtr("hello")},
		{Name: "second", Input: `{"text":"x"}`, WantText: stringPtr("not hello")},
		{Name: "third", Input: `{"text":"hello"}`, WantText: stringPtr("hello")},
	}

	summary := Run(context.Background(), adapter, cases, Options{Timeout: 5 * time.Second})
	if summary.Passed != 2 || summary.Failed != 1 {
		t.Errorf("expected 2 passed / 1 failed, got %d/%d", summary.Passed, summary.Failed)
	}
	for i, want := range []string{"first", "second", "third"} {
		if summary.Results[i].Case.Name != want {
			t.Errorf("expected result %d to be %q, got %q", i, want, summary.Results[i].Case.Name)
		}
	}
}

func TestBuiltin_CoversRejectionAndText(t *testing.T) {
	var failures, texts int
	for _, c := range Builtin() {
		if c.WantFailure {
			failures++
		}
		if c.WantText != nil {
			texts++
		}
		if c.Name == "" {
			t.Error("builtin case without a name")
		}
	}
	if failures == 0 {
		t.Error("expected builtin rejection cases")
	}
	if texts == 0 {
		t.Error("expected builtin text cases")
	}
}

func TestLoadCases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	content := `schema_version: v1
cases:
  - name: custom passthrough
    input: '{"text": "ping", "kind": "other"}'
    want_text: ping
  - name: rejects numbers
    input: '42'
    want_failure: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write case file: %v", err)
	}

	cases, err := LoadCases(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].WantText == nil || *cases[0].WantText != "ping" {
		t.Errorf("expected want_text 'ping', got %v", cases[0].WantText)
	}
	if !cases[1].WantFailure {
		t.Error("expected want_failure on the second case")
	}
}

func TestLoadCases_RejectsUnsupportedSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	if err := os.WriteFile(path, []byte("schema_version: v9\ncases: []\n"), 0644); err != nil {
		t.Fatalf("failed to write case file: %v", err)
	}

	if _, err := LoadCases(path); err == nil {
		t.Fatal("expected error for unsupported schema_version")
	}
}

func TestLoadCases_RejectsMixedExpectations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	content := `cases:
  - name: contradictory
    input: '{}'
    want_text: x
    want_failure: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write case file: %v", err)
	}

	if _, err := LoadCases(path); err == nil {
		t.Fatal("expected error for contradictory expectations")
	}
}
