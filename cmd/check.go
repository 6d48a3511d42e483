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
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/tranhook/internal/conformance"
)

var (
	checkConfigPath string
	checkProfile    string
	checkCommand    []string
	checkCasesPath  string
	checkTimeout    time.Duration
	checkNoBuiltin  bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check an adapter command against the wire contract",
	Long: `Run a conformance suite against a translator adapter command and
report a result table.

The built-in cases assume the reference stub transform (marker and
sentinel kind defaults); use --cases to supply a YAML suite for a real
translator, and --no-builtin to run only that suite. The command under
test resolves like "invoke": --command, or the config file.

Exits non-zero when any case fails.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveHook(checkCommand, checkConfigPath, checkProfile)
		if err != nil {
			return err
		}

		var cases []conformance.Case
		if !checkNoBuiltin {
			cases = conformance.Builtin()
		}
		if checkCasesPath != "" {
			extra, err := conformance.LoadCases(checkCasesPath)
			if err != nil {
				return err
			}
			cases = append(cases, extra...)
		}
		if len(cases) == 0 {
			return fmt.Errorf("no cases to run: --no-builtin requires --cases")
		}

		summary := conformance.Run(cmd.Context(), cfg.Command, cases, conformance.Options{
			Timeout: checkTimeout,
		})

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CASE\tRESULT\tLATENCY\tDETAIL")
		for _, r := range summary.Results {
			result := "PASS"
			if !r.Passed {
				result = "FAIL"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				r.Case.Name, result, r.Latency.Round(time.Millisecond), r.Detail)
		}
		w.Flush()

		fmt.Fprintf(cmd.OutOrStdout(), "\nPassed %d/%d cases\n", summary.Passed, len(summary.Results))
		if summary.Failed > 0 {
			return &exitError{code: 1, err: fmt.Errorf("%d of %d cases failed", summary.Failed, len(summary.Results))}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkConfigPath, "config", "", "Path to the host TOML config file")
	checkCmd.Flags().StringVar(&checkProfile, "profile", "", "Config profile name")
	checkCmd.Flags().StringSliceVar(&checkCommand, "command", nil, "Adapter command and arguments (bypasses the config file)")
	checkCmd.Flags().StringVar(&checkCasesPath, "cases", "", "YAML file with extra cases")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", conformance.DefaultCaseTimeout, "Per-case timeout")
	checkCmd.Flags().BoolVar(&checkNoBuiltin, "no-builtin", false, "Skip the built-in stub suite")
}
