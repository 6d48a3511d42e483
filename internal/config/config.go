// Package config resolves the host-side translation hook from a TOML
// configuration file. Two paths are recognized, a current one and a
// deprecated one, with per-field profile overrides:
//
//	[plugins.translation.agent_reasoning]            current
//	[translation.agent_reasoning]                    legacy (warned)
//	[profiles.<name>.plugins.translation.agent_reasoning]
//	[profiles.<name>.translation.agent_reasoning]
//
// Fields: command (string array), timeout_ms, ui_max_wait_ms,
// source_language, target_language. An empty or absent resolved
// command disables the hook.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/tranhook/internal/hook"
	"github.com/valpere/tranhook/internal/logging"
)

// Defaults applied when neither scope sets the field.
const (
	DefaultTimeoutMS   = 10000
	DefaultUIMaxWaitMS = 5000
)

// EnvUIMaxWaitMS caps the interactive wait for a reasoning translation
// regardless of what the config file says.
const EnvUIMaxWaitMS = "TRANHOOK_UI_MAX_WAIT_MS"

// allowedPlugins are the plugin names permitted under [plugins].
var allowedPlugins = []string{"translation"}

// hookFields are the keys accepted inside an agent_reasoning table on
// the current path. The legacy path tolerates extras.
var hookFields = map[string]bool{
	"command":         true,
	"timeout_ms":      true,
	"ui_max_wait_ms":  true,
	"source_language": true,
	"target_language": true,
}

// Load reads the TOML file at path and resolves the hook configuration
// for profile (empty string means no profile). It returns nil with a
// nil error when the hook is disabled.
//
// Note: viper lowercases table keys, so profile names are matched
// case-insensitively.
func Load(path, profile string) (*hook.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Resolve(v.AllSettings(), profile)
}

// Resolve applies plugin-name validation and the precedence rules to
// already-decoded settings. Exposed separately so tests and callers
// with non-file sources can reuse the semantics.
func Resolve(all map[string]any, profile string) (*hook.Config, error) {
	if err := validatePlugins(all, "plugins"); err != nil {
		return nil, err
	}

	var profileScope map[string]any
	if profile != "" {
		if profiles, ok := asTable(all["profiles"]); ok {
			if p, ok := asTable(profiles[strings.ToLower(profile)]); ok {
				profileScope = p
				scope := fmt.Sprintf("profiles.%s.plugins", profile)
				if err := validatePlugins(p, scope); err != nil {
					return nil, err
				}
			}
		}
	}

	global, err := scopeSettings(all, "")
	if err != nil {
		return nil, err
	}
	prof, err := scopeSettings(profileScope, "profiles."+profile+".")
	if err != nil {
		return nil, err
	}

	command := pickCommand(prof, global)
	if len(command) == 0 {
		return nil, nil
	}

	timeoutMS := pickInt(prof, global, func(s *settings) *int64 { return s.timeoutMS }, DefaultTimeoutMS)
	uiMaxWaitMS := pickInt(prof, global, func(s *settings) *int64 { return s.uiMaxWaitMS }, DefaultUIMaxWaitMS)

	return &hook.Config{
		Command:        command,
		Timeout:        time.Duration(timeoutMS) * time.Millisecond,
		UIMaxWait:      time.Duration(uiMaxWaitMS) * time.Millisecond,
		SourceLanguage: pickString(prof, global, func(s *settings) *string { return s.sourceLanguage }),
		TargetLanguage: pickString(prof, global, func(s *settings) *string { return s.targetLanguage }),
	}, nil
}

// UIMaxWaitOverride returns the env-configured wait bound, or fallback
// when the variable is absent or malformed.
func UIMaxWaitOverride(fallback time.Duration) time.Duration {
	raw := os.Getenv(EnvUIMaxWaitMS)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		logging.L().Warn("ignoring malformed env override",
			"var", EnvUIMaxWaitMS, "value", raw, "error", err)
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// settings holds one scope's raw fields; nil pointers mean unset so
// the profile scope can override the global scope per field.
type settings struct {
	command        []string
	hasCommand     bool
	timeoutMS      *int64
	uiMaxWaitMS    *int64
	sourceLanguage *string
	targetLanguage *string
}

// scopeSettings extracts the agent_reasoning settings from one scope
// (the file root or one profile table). prefix names the scope in
// error messages, e.g. "profiles.dev.".
func scopeSettings(scope map[string]any, prefix string) (*settings, error) {
	if scope == nil {
		return nil, nil
	}

	newPath := prefix + "plugins.translation.agent_reasoning"
	legacyPath := prefix + "translation.agent_reasoning"

	newTable, newPresent, err := lookupTable(scope, newPath, "plugins", "translation", "agent_reasoning")
	if err != nil {
		return nil, err
	}
	legacyTable, legacyPresent, err := lookupTable(scope, legacyPath, "translation", "agent_reasoning")
	if err != nil {
		return nil, err
	}

	if newPresent && legacyPresent {
		return nil, fmt.Errorf(
			"cannot set both `[%s]` and `[%s]` in the same scope; migrate to the new path and remove the legacy section",
			newPath, legacyPath)
	}

	if newPresent {
		for key := range newTable {
			if !hookFields[key] {
				return nil, fmt.Errorf("failed to parse `[%s]`: unknown field %q", newPath, key)
			}
		}
		return parseSettings(newTable, newPath)
	}
	if legacyPresent {
		warnDeprecatedOnce(legacyPath, newPath)
		return parseSettings(legacyTable, legacyPath)
	}
	return nil, nil
}

func parseSettings(table map[string]any, path string) (*settings, error) {
	s := &settings{}

	if raw, ok := table["command"]; ok {
		command, err := stringSlice(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse `[%s]`: command %w", path, err)
		}
		s.command = command
		s.hasCommand = true
	}

	for key, dst := range map[string]**int64{
		"timeout_ms":     &s.timeoutMS,
		"ui_max_wait_ms": &s.uiMaxWaitMS,
	} {
		raw, ok := table[key]
		if !ok {
			continue
		}
		n, err := intValue(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse `[%s]`: %s %w", path, key, err)
		}
		*dst = &n
	}

	for key, dst := range map[string]**string{
		"source_language": &s.sourceLanguage,
		"target_language": &s.targetLanguage,
	} {
		raw, ok := table[key]
		if !ok {
			continue
		}
		str, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("failed to parse `[%s]`: %s must be a string", path, key)
		}
		*dst = &str
	}

	return s, nil
}

func pickCommand(prof, global *settings) []string {
	if prof != nil && prof.hasCommand {
		return prof.command
	}
	if global != nil && global.hasCommand {
		return global.command
	}
	return nil
}

func pickInt(prof, global *settings, field func(*settings) *int64, def int64) int64 {
	if prof != nil {
		if v := field(prof); v != nil {
			return *v
		}
	}
	if global != nil {
		if v := field(global); v != nil {
			return *v
		}
	}
	return def
}

func pickString(prof, global *settings, field func(*settings) *string) string {
	if prof != nil {
		if v := field(prof); v != nil {
			return *v
		}
	}
	if global != nil {
		if v := field(global); v != nil {
			return *v
		}
	}
	return ""
}

func validatePlugins(scope map[string]any, path string) error {
	raw, ok := scope["plugins"]
	if !ok {
		return nil
	}
	plugins, ok := asTable(raw)
	if !ok {
		return fmt.Errorf("failed to parse `[%s]`: expected table", path)
	}
	for name := range plugins {
		known := false
		for _, allowed := range allowedPlugins {
			if name == allowed {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown plugin name `%s` found at `%s`. Allowed plugins: %s",
				name, path, strings.Join(allowedPlugins, ", "))
		}
	}
	return nil
}

// lookupTable walks nested tables by key. present reports whether the
// final key exists; a non-table value at any step is an error.
func lookupTable(scope map[string]any, path string, keys ...string) (map[string]any, bool, error) {
	current := scope
	for i, key := range keys {
		raw, ok := current[key]
		if !ok {
			return nil, false, nil
		}
		table, ok := asTable(raw)
		if !ok {
			return nil, false, fmt.Errorf("failed to parse `[%s]`: expected table at %q", path, strings.Join(keys[:i+1], "."))
		}
		current = table
	}
	return current, true, nil
}

func asTable(v any) (map[string]any, bool) {
	table, ok := v.(map[string]any)
	return table, ok
}

func stringSlice(raw any) ([]string, error) {
	items, ok := raw.([]any)
	if !ok {
		if strs, ok := raw.([]string); ok {
			return strs, nil
		}
		return nil, fmt.Errorf("must be an array of strings")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("must be an array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}

func intValue(raw any) (int64, error) {
	switch n := raw.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("must be an integer")
	}
}

var (
	deprecatedMu     sync.Mutex
	deprecatedWarned = map[string]bool{}
)

// warnDeprecatedOnce logs one warning per legacy path per process.
func warnDeprecatedOnce(oldPath, newPath string) {
	deprecatedMu.Lock()
	defer deprecatedMu.Unlock()
	if deprecatedWarned[oldPath] {
		return
	}
	deprecatedWarned[oldPath] = true
	logging.L().Warn("detected deprecated translation config; the legacy and new paths cannot coexist in the same scope",
		"deprecated", "["+oldPath+"]", "replacement", "["+newPath+"]")
}
