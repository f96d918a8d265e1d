package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/zen/archive"
	"github.com/joshuapare/zen/codec/binary"
	"github.com/joshuapare/zen/codec/text"
)

var (
	encodeFormat string
	encodeName   string
	encodeAge    int
	encodeEmail  string
	encodeOut    string
)

func init() {
	cmd := newEncodeCmd()
	cmd.Flags().StringVar(&encodeFormat, "format", "text", "output format: text or binary")
	cmd.Flags().StringVar(&encodeName, "name", "", "person name")
	cmd.Flags().IntVar(&encodeAge, "age", 0, "person age")
	cmd.Flags().StringVar(&encodeEmail, "email", "", "person email")
	cmd.Flags().StringVar(&encodeOut, "out", "", "output file (default stdout)")
	rootCmd.AddCommand(cmd)
}

func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode",
		Short: "Encode a demo person record to a zen archive file",
		Long: `Example:
  zenctl encode --name Ada --age 36 --email ada@example.com --format text --out person.zen.json
  zenctl encode --name Ada --age 36 --email ada@example.com --format binary --out person.zen`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode()
		},
	}
}

func runEncode() error {
	p := person{Name: encodeName, Age: encodeAge, Email: encodeEmail}

	out := os.Stdout
	if encodeOut != "" {
		f, err := os.Create(encodeOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch encodeFormat {
	case "text":
		enc := text.NewEncoder(out, nil)
		a := archive.New(enc, nil)
		if err := archive.Save(a, &p); err != nil {
			return err
		}
	case "binary":
		enc := binary.NewEncoder(out)
		a := archive.New(enc, nil)
		if err := archive.Save(a, &p); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want text or binary)", encodeFormat)
	}

	printVerbose("encoded %+v as %s\n", p, encodeFormat)
	return nil
}
