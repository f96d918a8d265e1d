package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/zen/log"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "zenctl",
	Short: "Encode, decode, and inspect zen archive files",
	Long: `zenctl is a reference tool for the zen serialization library. It
encodes and decodes a small demo record through the text and binary
codecs, and can pretty-print a text-format archive file.`,
	Version: "0.1.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		log.Init(log.Options{Enabled: !quiet, Output: os.Stderr, Level: level})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Disable diagnostic logging")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printVerbose emits a diagnostic line through the shared logger, which
// discards everything unless verbose/quiet enabled it in PersistentPreRun.
func printVerbose(format string, args ...interface{}) {
	log.Debug(fmt.Sprintf(format, args...))
}
