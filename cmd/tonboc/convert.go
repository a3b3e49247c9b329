package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a BoC between raw, hex, and base64 encodings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0], from)
			if err != nil {
				return err
			}
			switch strings.ToLower(to) {
			case "raw":
				_, err := cmd.OutOrStdout().Write(data)
				return err
			case "hex":
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			case "base64":
				fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(data))
			default:
				return fmt.Errorf("unknown --to %q, want raw, hex, or base64", to)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "raw", "input encoding: raw, hex, or base64")
	cmd.Flags().StringVar(&to, "to", "hex", "output encoding: raw, hex, or base64")
	return cmd
}
