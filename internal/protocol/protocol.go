// Package protocol defines the JSON wire contract between the
// translation host and a translator plugin: one request object on the
// plugin's stdin, one response object on its stdout.
package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// SchemaVersion is the wire schema understood by this package. Both
// sides carry it so that either end can refuse a payload it does not
// understand.
const SchemaVersion = 1

// Request kinds sent by the host. Kind is an open string on the wire:
// plugins must pass text with an unrecognized kind through unchanged.
const (
	KindAgentReasoningTitle = "agent_reasoning_title"
	KindAgentReasoningBody  = "agent_reasoning_body"
)

// Text formats announced alongside a kind.
const (
	FormatPlain    = "plain"
	FormatMarkdown = "markdown"
)

// Language pair used when a request does not carry one.
const (
	DefaultSourceLanguage = "en"
	DefaultTargetLanguage = "zh-CN"
)

// FormatForKind maps a request kind to the format of its text.
// Reasoning bodies are markdown; everything else is plain text.
func FormatForKind(kind string) string {
	if kind == KindAgentReasoningBody {
		return FormatMarkdown
	}
	return FormatPlain
}

// Request is the document a plugin reads from stdin. Plugins treat
// every field as optional and ignore fields they do not know; the
// host always sends the full form.
type Request struct {
	SchemaVersion int    `json:"schema_version"`
	Kind          string `json:"kind"`
	Format        string `json:"format"`
	SourceLang    string `json:"source_language"`
	TargetLang    string `json:"target_language"`
	Text          string `json:"text"`
}

// SourceOrDefault returns the request source language, falling back to
// DefaultSourceLanguage when the field is empty.
func (r Request) SourceOrDefault() string {
	if r.SourceLang == "" {
		return DefaultSourceLanguage
	}
	return r.SourceLang
}

// TargetOrDefault returns the request target language, falling back to
// DefaultTargetLanguage when the field is empty.
func (r Request) TargetOrDefault() string {
	if r.TargetLang == "" {
		return DefaultTargetLanguage
	}
	return r.TargetLang
}

// NewRequest builds a full request for the given kind and text. Empty
// languages take the package defaults.
func NewRequest(kind, text, source, target string) Request {
	if source == "" {
		source = DefaultSourceLanguage
	}
	if target == "" {
		target = DefaultTargetLanguage
	}
	return Request{
		SchemaVersion: SchemaVersion,
		Kind:          kind,
		Format:        FormatForKind(kind),
		SourceLang:    source,
		TargetLang:    target,
		Text:          text,
	}
}

// Response is the document a plugin writes to stdout. It carries
// exactly these two fields.
type Response struct {
	SchemaVersion int    `json:"schema_version"`
	Text          string `json:"text"`
}

// DecodeRequest reads exactly one JSON object from r. Missing fields
// default to their zero values and unknown fields are ignored, but the
// document must be a single well-formed object: anything else (empty
// input, a non-object value, trailing data, a field of the wrong type)
// is an error.
func DecodeRequest(r io.Reader) (Request, error) {
	dec := json.NewDecoder(r)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Request{}, errors.New("empty input, expected a JSON object")
		}
		return Request{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if len(raw) == 0 || raw[0] != '{' {
		return Request{}, fmt.Errorf("request must be a JSON object, got %s", jsonValueName(raw))
	}
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Request{}, fmt.Errorf("invalid request field: %w", err)
	}
	if dec.More() {
		return Request{}, errors.New("trailing data after request object")
	}
	return req, nil
}

// EncodeRequest renders the request as a single JSON line, trailing
// newline included, ready to be written to a plugin's stdin. Non-ASCII
// and HTML-significant characters are emitted literally.
func EncodeRequest(req Request) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(req); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeResponse writes the response to w as a single JSON line.
// Non-ASCII text is emitted literally, never escaped into \uXXXX form.
func EncodeResponse(w io.Writer, resp Response) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

// DecodeResponse parses a plugin's stdout. Unlike request decoding it
// is strict: both fields must be present. Schema version policy is the
// caller's concern.
func DecodeResponse(data []byte) (Response, error) {
	var raw struct {
		SchemaVersion *int    `json:"schema_version"`
		Text          *string `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Response{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if raw.SchemaVersion == nil {
		return Response{}, errors.New(`missing field "schema_version"`)
	}
	if raw.Text == nil {
		return Response{}, errors.New(`missing field "text"`)
	}
	return Response{SchemaVersion: *raw.SchemaVersion, Text: *raw.Text}, nil
}

func jsonValueName(raw []byte) string {
	if len(raw) == 0 {
		return "nothing"
	}
	switch raw[0] {
	case '[':
		return "an array"
	case '"':
		return "a string"
	case 't', 'f':
		return "a boolean"
	case 'n':
		return "null"
	default:
		return "a number"
	}
}
