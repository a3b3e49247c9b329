package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gotonboc/tonboc/lib/boc"
	"github.com/gotonboc/tonboc/lib/cell"
)

func newDumpCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Parse a BoC and print its cell graph shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0], format)
			if err != nil {
				return err
			}
			roots, err := boc.Deserialize(data)
			if err != nil {
				return err
			}
			log.WithField("roots", len(roots)).Debug("parsed boc")
			for i, root := range roots {
				fmt.Printf("root %d:\n", i)
				dumpCell(root, 1, make(map[*cell.Cell]bool))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "raw", "input encoding: raw, hex, or base64")
	return cmd
}

func dumpCell(c *cell.Cell, depth int, seen map[*cell.Cell]bool) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	h, err := c.HashString()
	if err != nil {
		fmt.Printf("%shash error: %v\n", indent, err)
		return
	}
	s := c.BeginParse()
	fmt.Printf("%s%s bits=%d refs=%d exotic=%t\n", indent, h, s.RemainingBits(), c.RefsCount(), c.IsExotic)
	if seen[c] {
		fmt.Printf("%s  (already printed above, shared subcell)\n", indent)
		return
	}
	seen[c] = true
	for _, ref := range c.Refs {
		dumpCell(ref, depth+1, seen)
	}
}
