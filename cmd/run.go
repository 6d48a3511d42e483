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
	"github.com/spf13/cobra"

	"github.com/valpere/tranhook/internal/adapter"
)

var (
	runTransform     string
	runMarker        string
	runTitleKind     string
	runCredentials   string
	runMymemoryEmail string
	runOllamaURL     string
	runOllamaModel   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the translator adapter once (stdin JSON to stdout JSON)",
	Long: `Read one JSON request from stdin, transform its text, and write one
JSON response to stdout.

Available transforms:
  - prefix     prepend a marker to reasoning titles, pass everything
               else through (the default; no network access)
  - echo       return the text unchanged
  - google     Google Cloud Translation (requires credentials)
  - mymemory   MyMemory (free, 5000 chars/day)
  - ollama     Ollama LLM (self-hosted)

Exit codes: 0 success, 2 malformed input, 3 translation failure,
4 response write failure. On any non-zero exit stdout carries no
response document.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		tr, err := buildTransform(runTransform, transformOptions{
			marker:        runMarker,
			titleKind:     runTitleKind,
			credentials:   runCredentials,
			mymemoryEmail: runMymemoryEmail,
			ollamaURL:     runOllamaURL,
			ollamaModel:   runOllamaModel,
		})
		if err != nil {
			return err
		}

		a := adapter.New(tr, cmd.InOrStdin(), cmd.OutOrStdout())
		code, err := a.Run(cmd.Context())
		if err != nil {
			return &exitError{code: code, err: err}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runTransform, "transform", "prefix", "Transform to apply: prefix, echo, google, mymemory, ollama")
	runCmd.Flags().StringVar(&runMarker, "marker", "", "Marker the prefix transform prepends (default \"译: \")")
	runCmd.Flags().StringVar(&runTitleKind, "title-kind", "", "Kind the prefix transform matches (default \"agent_reasoning_title\")")
	runCmd.Flags().StringVarP(&runCredentials, "credentials", "c", "", "Path to Google Cloud credentials")
	runCmd.Flags().StringVar(&runMymemoryEmail, "mymemory-email", "", "MyMemory email (for higher limits)")
	runCmd.Flags().StringVar(&runOllamaURL, "ollama-url", "", "Ollama base URL (default http://localhost:11434)")
	runCmd.Flags().StringVar(&runOllamaModel, "ollama-model", "", "Ollama model name (default llama3.2)")
}
