package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_NewPath(t *testing.T) {
	path := writeConfig(t, `
[plugins.translation.agent_reasoning]
command = ["sh", "-c", "translate"]
timeout_ms = 2500
ui_max_wait_ms = 800
source_language = "en"
target_language = "uk"
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected a resolved config, got nil")
	}
	if len(cfg.Command) != 3 || cfg.Command[0] != "sh" {
		t.Errorf("expected command [sh -c translate], got %v", cfg.Command)
	}
	if cfg.Timeout != 2500*time.Millisecond {
		t.Errorf("expected timeout 2.5s, got %v", cfg.Timeout)
	}
	if cfg.UIMaxWait != 800*time.Millisecond {
		t.Errorf("expected ui max wait 800ms, got %v", cfg.UIMaxWait)
	}
	if cfg.SourceLanguage != "en" || cfg.TargetLanguage != "uk" {
		t.Errorf("expected en/uk, got %q/%q", cfg.SourceLanguage, cfg.TargetLanguage)
	}
}

func TestLoad_LegacyPath(t *testing.T) {
	path := writeConfig(t, `
[translation.agent_reasoning]
command = ["translator"]
timeout_ms = 1500
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected a resolved config, got nil")
	}
	if len(cfg.Command) != 1 || cfg.Command[0] != "translator" {
		t.Errorf("expected command [translator], got %v", cfg.Command)
	}
	if cfg.Timeout != 1500*time.Millisecond {
		t.Errorf("expected timeout 1.5s, got %v", cfg.Timeout)
	}
}

func TestLoad_LegacyPathToleratesUnknownFields(t *testing.T) {
	path := writeConfig(t, `
[translation.agent_reasoning]
command = ["translator"]
some_future_field = true
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected a resolved config, got nil")
	}
}

func TestLoad_NewPathRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
[plugins.translation.agent_reasoning]
command = ["translator"]
some_future_field = true
`)

	_, err := Load(path, "")
	if err == nil {
		t.Fatal("expected error for unknown field on the new path")
	}
	if !strings.Contains(err.Error(), "unknown field") {
		t.Errorf("expected unknown-field error, got %v", err)
	}
}

func TestLoad_BothPathsInSameScope(t *testing.T) {
	path := writeConfig(t, `
[plugins.translation.agent_reasoning]
command = ["new"]

[translation.agent_reasoning]
command = ["old"]
`)

	_, err := Load(path, "")
	if err == nil {
		t.Fatal("expected error for both paths in one scope")
	}
	if !strings.Contains(err.Error(), "plugins.translation.agent_reasoning") ||
		!strings.Contains(err.Error(), "translation.agent_reasoning") {
		t.Errorf("expected error to name both paths, got %v", err)
	}
}

func TestLoad_BothPathsInProfileScope(t *testing.T) {
	path := writeConfig(t, `
[profiles.dev.plugins.translation.agent_reasoning]
command = ["new"]

[profiles.dev.translation.agent_reasoning]
command = ["old"]
`)

	if _, err := Load(path, "dev"); err == nil {
		t.Fatal("expected error for both paths in the profile scope")
	}
}

func TestLoad_ProfileOverridesPerField(t *testing.T) {
	path := writeConfig(t, `
[plugins.translation.agent_reasoning]
command = ["global-translator"]
timeout_ms = 9000
target_language = "zh-CN"

[profiles.dev.plugins.translation.agent_reasoning]
timeout_ms = 1000
`)

	cfg, err := Load(path, "dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected a resolved config, got nil")
	}
	// command falls back to the global scope, timeout comes from the profile
	if len(cfg.Command) != 1 || cfg.Command[0] != "global-translator" {
		t.Errorf("expected global command, got %v", cfg.Command)
	}
	if cfg.Timeout != time.Second {
		t.Errorf("expected profile timeout 1s, got %v", cfg.Timeout)
	}
	if cfg.TargetLanguage != "zh-CN" {
		t.Errorf("expected global target language, got %q", cfg.TargetLanguage)
	}
}

func TestLoad_ProfileLegacyOverridesGlobalNew(t *testing.T) {
	path := writeConfig(t, `
[plugins.translation.agent_reasoning]
command = ["global"]

[profiles.dev.translation.agent_reasoning]
command = ["profile"]
`)

	cfg, err := Load(path, "dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected a resolved config, got nil")
	}
	if cfg.Command[0] != "profile" {
		t.Errorf("expected profile command to win, got %v", cfg.Command)
	}
}

func TestLoad_EmptyCommandDisables(t *testing.T) {
	path := writeConfig(t, `
[plugins.translation.agent_reasoning]
command = []
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected disabled hook (nil config), got %+v", cfg)
	}
}

func TestLoad_AbsentHookDisables(t *testing.T) {
	path := writeConfig(t, `
[other_section]
key = "value"
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected disabled hook (nil config), got %+v", cfg)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[plugins.translation.agent_reasoning]
command = ["translator"]
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected a resolved config, got nil")
	}
	if cfg.Timeout != DefaultTimeoutMS*time.Millisecond {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.UIMaxWait != DefaultUIMaxWaitMS*time.Millisecond {
		t.Errorf("expected default ui max wait, got %v", cfg.UIMaxWait)
	}
	if cfg.SourceLanguage != "" || cfg.TargetLanguage != "" {
		t.Errorf("expected empty languages (wire defaults apply later), got %q/%q",
			cfg.SourceLanguage, cfg.TargetLanguage)
	}
}

func TestLoad_UnknownPluginName(t *testing.T) {
	path := writeConfig(t, `
[plugins.spellcheck]
command = ["spell"]
`)

	_, err := Load(path, "")
	if err == nil {
		t.Fatal("expected error for unknown plugin name")
	}
	if !strings.Contains(err.Error(), "unknown plugin name") {
		t.Errorf("expected unknown-plugin error, got %v", err)
	}
}

func TestLoad_UnknownPluginNameInProfile(t *testing.T) {
	path := writeConfig(t, `
[profiles.dev.plugins.spellcheck]
command = ["spell"]
`)

	if _, err := Load(path, "dev"); err == nil {
		t.Fatal("expected error for unknown plugin name in profile scope")
	}
}

func TestLoad_CommandMustBeStringArray(t *testing.T) {
	path := writeConfig(t, `
[plugins.translation.agent_reasoning]
command = "translator"
`)

	if _, err := Load(path, ""); err == nil {
		t.Fatal("expected error for non-array command")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml"), ""); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}

func TestUIMaxWaitOverride(t *testing.T) {
	fallback := 5 * time.Second

	t.Setenv(EnvUIMaxWaitMS, "")
	if got := UIMaxWaitOverride(fallback); got != fallback {
		t.Errorf("expected fallback when unset, got %v", got)
	}

	t.Setenv(EnvUIMaxWaitMS, "250")
	if got := UIMaxWaitOverride(fallback); got != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", got)
	}

	t.Setenv(EnvUIMaxWaitMS, "not-a-number")
	if got := UIMaxWaitOverride(fallback); got != fallback {
		t.Errorf("expected fallback on malformed value, got %v", got)
	}
}
