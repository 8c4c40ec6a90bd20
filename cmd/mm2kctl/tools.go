package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/2beens/mm2kbench/pkg"

	"github.com/spf13/cobra"
)

func hashCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-code <code>",
		Short: "Print the bcrypt hash of an admin code, for MM2K_ADMIN_CODE_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return errors.New("empty code")
			}
			hash, err := pkg.HashPassword(args[0])
			if err != nil {
				return fmt.Errorf("hash code: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func backupCmd() *cobra.Command {
	var (
		dataDir string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Pack the disk blob store into a tar.gz archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := backupDir(dataDir, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backup written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "./data/blobs", "blob store root directory")
	cmd.Flags().StringVar(&outPath, "out", "mm2k-blobs.tar.gz", "archive path")

	return cmd
}

func backupDir(dataDir, outPath string) (err error) {
	exists, err := pkg.PathExists(dataDir, true)
	if err != nil {
		return fmt.Errorf("check data dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("data dir %s does not exist", dataDir)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := pkg.Compress(dataDir, out); err != nil {
		return fmt.Errorf("compress %s: %w", dataDir, err)
	}
	return nil
}
