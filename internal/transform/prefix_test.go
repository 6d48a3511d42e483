package transform

import (
	"context"
	"testing"

	"github.com/valpere/tranhook/internal/protocol"
)

func TestPrefixTransform_SentinelKind(t *testing.T) {
	tr := NewPrefix("", "")

	got, err := tr.Apply(context.Background(), protocol.Request{
		Kind: protocol.KindAgentReasoningTitle,
		Text: "hello",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "译: hello" {
		t.Errorf("expected '译: hello', got %q", got)
	}
}

func TestPrefixTransform_OtherKindPassesThrough(t *testing.T) {
	tr := NewPrefix("", "")

	got, err := tr.Apply(context.Background(), protocol.Request{
		Kind: "other",
		Text: "hello",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
}

func TestPrefixTransform_AbsentKindPassesThrough(t *testing.T) {
	tr := NewPrefix("", "")

	got, err := tr.Apply(context.Background(), protocol.Request{Text: "hello"})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected 'hello', got %q", got)
	}
}

func TestPrefixTransform_EmptyRequest(t *testing.T) {
	tr := NewPrefix("", "")

	got, err := tr.Apply(context.Background(), protocol.Request{})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestPrefixTransform_CustomMarkerAndKind(t *testing.T) {
	tr := NewPrefix(">> ", "heading")

	got, err := tr.Apply(context.Background(), protocol.Request{Kind: "heading", Text: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ">> x" {
		t.Errorf("expected '>> x', got %q", got)
	}

	got, err = tr.Apply(context.Background(), protocol.Request{
		Kind: protocol.KindAgentReasoningTitle,
		Text: "x",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "x" {
		t.Errorf("expected passthrough for non-matching kind, got %q", got)
	}
}

func TestPrefixTransform_Idempotent(t *testing.T) {
	tr := NewPrefix("", "")
	req := protocol.Request{Kind: "other", Text: "unchanged text"}

	first, err := tr.Apply(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Text = first
	second, err := tr.Apply(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != first {
		t.Errorf("expected identity path to be idempotent, got %q then %q", first, second)
	}
}

func TestPrefixTransform_Name(t *testing.T) {
	if got := NewPrefix("", "").Name(); got != "prefix" {
		t.Errorf("expected 'prefix', got %q", got)
	}
}

func TestEchoTransform(t *testing.T) {
	tr := NewEcho()

	got, err := tr.Apply(context.Background(), protocol.Request{
		Kind: protocol.KindAgentReasoningTitle,
		Text: "译文 unchanged",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "译文 unchanged" {
		t.Errorf("expected unchanged text, got %q", got)
	}
	if NewEcho().Name() != "echo" {
		t.Errorf("expected 'echo', got %q", NewEcho().Name())
	}
}
