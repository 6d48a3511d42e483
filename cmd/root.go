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
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/valpere/tranhook/internal/logging"
)

var version = "0.1.0"

var (
	logLevel string
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "tranhook",
	Short: "Translator plugin adapter and host-side command hook",
	Long: `tranhook is both halves of the external-translator contract:

  tranhook run     the plugin side: read one JSON request from stdin,
                   transform the text, write one JSON response to stdout
  tranhook invoke  the host side: spawn a configured plugin command for
                   one translation and print the result
  tranhook check   verify that an adapter command honors the contract

All diagnostics go to stderr; stdout carries only results.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("log-level") || cmd.Flags().Changed("log-json") {
			logging.Configure(logging.Options{Level: logLevel, JSON: logJSON})
			return
		}
		logging.InitFromEnv()
	},
}

// exitError carries a specific process exit code out of a RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var coded *exitError
	if errors.As(err, &coded) {
		os.Exit(coded.code)
	}
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
}
