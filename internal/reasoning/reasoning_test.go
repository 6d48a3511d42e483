package reasoning

import "testing"

func TestTitle(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"title and body", "**Planning the fix**\n\nFirst I will look at the tests.", "Planning the fix", true},
		{"title only", "**Just a headline**", "Just a headline", true},
		{"leading whitespace", "  \n**Trimmed**\nbody", "Trimmed", true},
		{"no bold", "plain reasoning text", "", false},
		{"unclosed bold", "**never closed", "", false},
		{"empty bold", "****\nbody", "", false},
		{"non-ascii", "**规划修复**\n正文", "规划修复", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Title(tc.input)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestBody(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"title and body", "**Planning**\n\nFirst I will look at the tests.", "First I will look at the tests.", true},
		{"title only", "**Just a headline**", "", false},
		{"title then whitespace", "**Headline**\n   \n", "", false},
		{"no bold", "plain reasoning text", "", false},
		{"body keeps inner markdown", "**T**\n- item `code`\n- more", "- item `code`\n- more", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Body(tc.input)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
