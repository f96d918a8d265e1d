package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInspectCmd())
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Pretty-print a text-format archive file",
		Long: `The text codec's wire format is a JSON-shaped tree, so a text
archive can be pretty-printed generically with no knowledge of the
type it was written from. The binary codec carries no field names or
structure markers at all, so there is nothing generic to show beyond
its 3-byte header; decode it with a known record type instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

func runInspect(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err == nil {
		fmt.Println(buf.String())
		return nil
	}

	if len(raw) >= 3 {
		fmt.Printf("not a JSON-shaped text archive; looks like binary (header bytes: % x)\n", raw[:3])
		return nil
	}
	return fmt.Errorf("%s does not look like a zen archive file", path)
}
