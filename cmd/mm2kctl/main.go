package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mm2kctl",
		Short: "MM2K bench program tools",
		Long: `Offline tools for the MM2K bench program.

Examples:
  mm2kctl plan --rm 100 --rounding 2.5
  mm2kctl project --rm 100 --ft 5:9 --ft 10:6
  mm2kctl hash-code 1234
  mm2kctl backup --data-dir ./data/blobs --out blobs.tar.gz
`,
		SilenceUsage: true,
	}

	cmd.AddCommand(planCmd())
	cmd.AddCommand(projectCmd())
	cmd.AddCommand(hashCodeCmd())
	cmd.AddCommand(backupCmd())

	return cmd
}
