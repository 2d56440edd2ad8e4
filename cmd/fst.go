// Package cmd provides command-line interface for filesystem table inspection.
// This file contains commands for dumping the FST, listing its files and
// extracting a single file from a GameCube disc image.
package cmd

import (
	"fmt"
	"os"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gcm"
	"github.com/spf13/cobra"
)

// fstCmd represents the parent command for all FST operations.
var fstCmd = &cobra.Command{
	Use:   "fst",
	Short: "Inspect the filesystem table of a GameCube disc image",
	Long: `Inspect the filesystem table (FST) of a GameCube disc image.

Commands:
  show      Write the raw FST bytes to stdout
  list      List every file and directory in the FST
  extract   Extract one file by name or path

Examples:
  gcmtools fst show ssbm.iso > fst.bin
  gcmtools fst list ssbm.iso
  gcmtools fst extract ssbm.iso PlCaGr.dat -o PlCaGr.dat`,
}

// fstShowCmd dumps the table region located through the disc header.
var fstShowCmd = &cobra.Command{
	Use:   "show [image]",
	Short: "Write the raw FST bytes to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setVerbose(cmd); err != nil {
			return err
		}

		disc, err := gcm.Open(args[0])
		if err != nil {
			return common.FormatError(common.ErrFailedToOpenImage, err)
		}
		defer disc.Close()

		raw, err := disc.ReadFST()
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(raw)
		return err
	},
}

// fstListCmd lists every node of the table.
var fstListCmd = &cobra.Command{
	Use:   "list [image]",
	Short: "List files in the FST",
	Long: `List every file and directory of a GameCube disc image.

Each line shows:
  - ID (4-digit hex entry index)
  - Offset of the payload in the image (directories show the parent index)
  - Size in bytes (directories show the next entry index)
  - Path within the disc

Example:
  gcmtools fst list ssbm.iso`,
	Args: cobra.ExactArgs(1),
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

		nodes, err := table.Nodes()
		if err != nil {
			return common.FormatError(common.ErrFailedToParseFST, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Game: %s (%s)\n", disc.Header.Title(), disc.Header.GameID())
		fmt.Fprintf(out, "FST:  0x%X (%d bytes, %d entries)\n\n", disc.Header.FSTOffset, disc.Header.FSTSize, table.NumEntries())
		fmt.Fprintf(out, "ID   | Offset     | Size       | Path\n")
		fmt.Fprintf(out, "-----|------------|------------|--------------------------------------------------\n")
		for _, node := range nodes {
			path := node.Path
			if node.IsDir {
				path += "/"
			}
			fmt.Fprintf(out, "%04X | 0x%08X | %10d | %s\n", node.Index, node.Offset, node.Size, path)
		}

		return nil
	},
}

// fstExtractCmd writes one file's payload to stdout or a file.
var fstExtractCmd = &cobra.Command{
	Use:   "extract [image] [name]",
	Short: "Extract one file from the disc image",
	Long: `Extract one file from a GameCube disc image.

The name must match exactly one file, either by file name or by full path.

Examples:
  gcmtools fst extract ssbm.iso PlCaGr.dat -o PlCaGr.dat
  gcmtools fst extract ssbm.iso audio/us/smash2.sem > smash2.sem`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setVerbose(cmd); err != nil {
			return err
		}

		outputFile, err := cmd.Flags().GetString("output")
		if err != nil {
			return fmt.Errorf("error getting output flag: %w", err)
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

		if outputFile == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		if err := os.WriteFile(outputFile, data, 0o644); err != nil {
			return common.FormatError(common.ErrFailedToCreateOutputFile, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Extracted %s (%d bytes at 0x%X) to %s\n", node.Path, node.Size, node.Offset, outputFile)
		return nil
	},
}

// init initializes the FST command and its subcommands with appropriate flags.
func init() {
	rootCmd.AddCommand(fstCmd)

	fstCmd.AddCommand(fstShowCmd)
	fstCmd.AddCommand(fstListCmd)
	fstCmd.AddCommand(fstExtractCmd)

	fstShowCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")
	fstListCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")
	fstExtractCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")

	fstExtractCmd.Flags().StringP("output", "o", "", "Write the file here instead of stdout")
}
