package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/zen/archive"
	"github.com/joshuapare/zen/codec/binary"
	"github.com/joshuapare/zen/codec/text"
)

var decodeFormat string

func init() {
	cmd := newDecodeCmd()
	cmd.Flags().StringVar(&decodeFormat, "format", "text", "input format: text or binary")
	rootCmd.AddCommand(cmd)
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file>",
		Short: "Decode a zen archive file back into a demo person record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args[0])
		},
	}
}

func runDecode(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var p person
	switch decodeFormat {
	case "text":
		dec, err := text.NewDecoder(f)
		if err != nil {
			return err
		}
		a := archive.New(dec, nil)
		if err := archive.Load(a, &p); err != nil {
			return err
		}
	case "binary":
		dec := binary.NewDecoder(f)
		a := archive.New(dec, nil)
		if err := archive.Load(a, &p); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want text or binary)", decodeFormat)
	}

	fmt.Printf("name:  %s\n", p.Name)
	fmt.Printf("age:   %d\n", p.Age)
	fmt.Printf("email: %s\n", p.Email)
	printVerbose("decoded %+v from %s (%s format)", p, path, decodeFormat)
	return nil
}
