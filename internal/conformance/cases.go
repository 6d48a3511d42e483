package conformance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SupportedSchema is the accepted case-file schema_version.
const SupportedSchema = "v1"

func stringPtr(s string) *string { return &s }

// Builtin returns the contract suite for an adapter running the
// reference stub transform with default settings. The rejection cases
// at the end hold for any adapter; the text expectations assume the
// stub's marker and sentinel kind.
func Builtin() []Case {
	return []Case{
		{
			Name:     "sentinel kind gets the marker prefix",
			Input:    `{"text": "hello", "kind": "agent_reasoning_title"}`,
			WantText: stringPtr("译: hello"),
		},
		{
			Name:     "other kind passes through",
			Input:    `{"text": "hello", "kind": "other"}`,
			WantText: stringPtr("hello"),
		},
		{
			Name:     "absent kind passes through",
			Input:    `{"text": "hello"}`,
			WantText: stringPtr("hello"),
		},
		{
			Name:     "empty object defaults to empty text",
			Input:    `{}`,
			WantText: stringPtr(""),
		},
		{
			Name:     "unknown fields are ignored",
			Input:    `{"text": "hi", "kind": "other", "future_field": {"nested": true}}`,
			WantText: stringPtr("hi"),
		},
		{
			Name:     "non-ASCII text survives literally",
			Input:    `{"text": "naïve 译文 🚀", "kind": "other"}`,
			WantText: stringPtr("naïve 译文 🚀"),
		},
		{
			Name:     "identity path is idempotent",
			Input:    `{"text": "stable output", "kind": "other"}`,
			WantText: stringPtr("stable output"),
			Chain:    true,
		},
		{
			Name:        "empty input is rejected",
			Input:       ``,
			WantFailure: true,
		},
		{
			Name:        "non-object JSON is rejected",
			Input:       `"hello"`,
			WantFailure: true,
		},
		{
			Name:        "array input is rejected",
			Input:       `[1, 2, 3]`,
			WantFailure: true,
		},
		{
			Name:        "malformed JSON is rejected",
			Input:       `{not json`,
			WantFailure: true,
		},
		{
			Name:        "wrong-typed text field is rejected",
			Input:       `{"text": 42}`,
			WantFailure: true,
		},
	}
}

type caseFile struct {
	SchemaVersion string `yaml:"schema_version"`
	Cases         []Case `yaml:"cases"`
}

// LoadCases parses extra cases from a YAML file and validates its
// schema_version.
func LoadCases(path string) ([]Case, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file caseFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse case file %s: %w", path, err)
	}
	if file.SchemaVersion == "" {
		file.SchemaVersion = SupportedSchema
	}
	if file.SchemaVersion != SupportedSchema {
		return nil, fmt.Errorf("case file schema_version %q not supported (want %q)", file.SchemaVersion, SupportedSchema)
	}

	for i, c := range file.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("case %d in %s has no name", i, path)
		}
		if c.WantFailure && (c.WantText != nil || c.Chain) {
			return nil, fmt.Errorf("case %q mixes want_failure with a success expectation", c.Name)
		}
	}

	return file.Cases, nil
}
