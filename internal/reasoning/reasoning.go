// Package reasoning splits agent reasoning markdown into the pieces
// the translation flow treats differently: the bold headline shown on
// the status line and the body text that follows it.
package reasoning

import "strings"

// Title returns the content of the first **bold** span in s. ok is
// false when s has no complete bold span or the span is empty.
func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	open := strings.Index(s, "**")
	if open < 0 {
		return "", false
	}
	rest := s[open+2:]
	length := strings.Index(rest, "**")
	if length < 0 {
		return "", false
	}
	title := strings.TrimSpace(rest[:length])
	if title == "" {
		return "", false
	}
	return title, true
}

// Body returns the text after the first bold block. ok is false when
// there is no bold block or nothing follows it; reasoning that is only
// a title has no body to translate.
func Body(s string) (string, bool) {
	s = strings.TrimSpace(s)
	open := strings.Index(s, "**")
	if open < 0 {
		return "", false
	}
	rest := s[open+2:]
	length := strings.Index(rest, "**")
	if length < 0 {
		return "", false
	}
	body := strings.TrimLeft(rest[length+2:], " \t\r\n")
	if body == "" {
		return "", false
	}
	return body, true
}
