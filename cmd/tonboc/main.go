// Command tonboc is an operator-facing inspector for Bag-of-Cells data: it
// can dump a cell graph's shape, round-trip/CRC-verify an envelope, or
// convert between hex, base64, and raw encodings. It calls only the in-scope
// codec packages (lib/boc, lib/cell); it never constructs contracts,
// wallets, or messages.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

func main() {
	root := &cobra.Command{
		Use:   "tonboc",
		Short: "Inspect and convert TON Bag-of-Cells data",
	}
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	}

	root.AddCommand(newDumpCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newConvertCmd())

	if err := root.Execute(); err != nil {
		log.WithError(err).Error("tonboc failed")
		os.Exit(1)
	}
}
