// Package cmd provides command-line interface for DAT archive inspection.
// This file contains the command that prints the header of a .dat file
// stored in a GameCube disc image.
package cmd

import (
	"fmt"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gcm"
	"github.com/spf13/cobra"
)

// datCmd represents the parent command for all DAT operations.
var datCmd = &cobra.Command{
	Use:   "dat",
	Short: "Inspect DAT archives inside a disc image",
	Long: `Inspect HSD archives (.dat files) stored in a GameCube disc image.

Commands:
  info      Print the archive header of one file

Examples:
  gcmtools dat info ssbm.iso PlCaGr.dat`,
}

// datInfoCmd prints the 0x20-byte header of a .dat file.
var datInfoCmd = &cobra.Command{
	Use:   "info [image] [name]",
	Short: "Print the header of a DAT file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setVerbose(cmd); err != nil {
			return err
		}

		disc, err := gcm.Open(args[0])
		if err != nil {
			return common.FormatError(common.ErrFailedToOpenImage, err)
		}
		defer disc.Close()

		table, err := disc.ReadTable()
		if err != nil {
			return err
		}

		node, err := table.Find(args[1])
		if err != nil {
			return err
		}

		data, err := disc.ReadFile(node)
		if err != nil {
			return err
		}

		header, err := gcm.ReadDATHeader(data)
		if err != nil {
			return fmt.Errorf("%s: %w", node.Path, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "File:              %s (entry 0x%04X)\n", node.Path, node.Index)
		fmt.Fprintf(out, "Disc offset:       0x%08X\n", node.Offset)
		fmt.Fprintf(out, "Disc size:         %d bytes\n", node.Size)
		fmt.Fprintf(out, "Header file size:  %d bytes\n", header.FileSize)
		fmt.Fprintf(out, "Data block size:   %d bytes\n", header.DataBlockSize)
		fmt.Fprintf(out, "Relocations:       %d\n", header.RelocationTableCount)
		fmt.Fprintf(out, "Root nodes:        %d\n", header.RootCount)
		fmt.Fprintf(out, "Reference nodes:   %d\n", header.ReferenceCount)

		if !header.MatchesSize(node.Size) {
			common.LogWarn(common.WarnDATSizeMismatch, node.Path, header.FileSize, node.Size)
		}
		return nil
	},
}

// init initializes the DAT command and its subcommands with appropriate flags.
func init() {
	rootCmd.AddCommand(datCmd)

	datCmd.AddCommand(datInfoCmd)

	datInfoCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")
}
