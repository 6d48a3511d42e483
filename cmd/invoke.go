/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/tranhook/internal/config"
	"github.com/valpere/tranhook/internal/hook"
	"github.com/valpere/tranhook/internal/logging"
	"github.com/valpere/tranhook/internal/protocol"
	"github.com/valpere/tranhook/internal/reasoning"
)

var (
	invokeConfigPath string
	invokeProfile    string
	invokeCommand    []string
	invokeKind       string
	invokeText       string
	invokeReasoning  bool
)

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Translate one text through a configured plugin command",
	Long: `Spawn the translation plugin for a single request and print the
translated text.

The plugin command comes from --command, or from the config file's
[plugins.translation.agent_reasoning] section (--config, optionally
--profile). The source text comes from --text, or from stdin.

With --reasoning the text is treated as agent reasoning markdown: the
whole blob is translated as a markdown body, a bilingual
"original(translated)" title line is printed when both texts carry a
bold headline, and on timeout or failure the original text is printed
unchanged instead of failing the command. The wait for a reasoning
translation is bounded by ui_max_wait_ms (env override
TRANHOOK_UI_MAX_WAIT_MS).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveHook(invokeCommand, invokeConfigPath, invokeProfile)
		if err != nil {
			return err
		}

		text := invokeText
		if text == "" {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			text = string(raw)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("nothing to translate: pass --text or pipe text on stdin")
		}

		if invokeReasoning {
			return invokeReasoningFlow(cmd, *cfg, text)
		}

		translated, err := hook.Translate(cmd.Context(), *cfg, invokeKind, text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), translated)
		return nil
	},
}

// invokeReasoningFlow mirrors the interactive host: translate the full
// reasoning as a markdown body, derive the translated title from the
// result, and degrade to the original text when the plugin fails or
// the wait budget runs out.
func invokeReasoningFlow(cmd *cobra.Command, cfg hook.Config, text string) error {
	wait := config.UIMaxWaitOverride(cfg.UIMaxWait)
	if wait <= 0 {
		wait = hook.DefaultUIMaxWait
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), wait)
	defer cancel()

	translated, err := hook.Translate(ctx, cfg, protocol.KindAgentReasoningBody, text)
	if err != nil {
		logging.L().Warn("reasoning translation skipped", "error", err, "max_wait", wait)
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}

	out := cmd.OutOrStdout()
	if title, ok := reasoning.Title(text); ok {
		if translatedTitle, ok := reasoning.Title(translated); ok {
			fmt.Fprintln(out, hook.FormatBilingualTitle(title, translatedTitle))
		}
	}

	body, ok := reasoning.Body(translated)
	if !ok {
		body = translated
	}
	fmt.Fprintln(out, body)
	return nil
}

func init() {
	rootCmd.AddCommand(invokeCmd)

	invokeCmd.Flags().StringVar(&invokeConfigPath, "config", "", "Path to the host TOML config file")
	invokeCmd.Flags().StringVar(&invokeProfile, "profile", "", "Config profile name")
	invokeCmd.Flags().StringSliceVar(&invokeCommand, "command", nil, "Plugin command and arguments (bypasses the config file)")
	invokeCmd.Flags().StringVarP(&invokeKind, "kind", "k", protocol.KindAgentReasoningTitle, "Request kind")
	invokeCmd.Flags().StringVarP(&invokeText, "text", "t", "", "Text to translate (stdin when empty)")
	invokeCmd.Flags().BoolVar(&invokeReasoning, "reasoning", false, "Treat the text as agent reasoning markdown (bilingual title flow)")
}
