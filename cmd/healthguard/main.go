// Command healthguard serves the wellness dashboard API and offers one-shot
// analysis tools from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "healthguard",
		Short: "Smart HealthGuard wellness dashboard",
		Long: `healthguard turns wearable-style sensor readings and a short lifestyle
profile into a structured, non-medical wellness report generated by Gemini.

Without a subcommand it starts the HTTP server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format override (json, console)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newPromptCmd())
	root.AddCommand(newHistoryCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
