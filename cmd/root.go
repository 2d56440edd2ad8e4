// Package cmd provides command-line interface functionality for GCMTools.
// GCMTools rebuilds GameCube disc images with replaced files, rewriting
// the filesystem table so every other file stays reachable.
package cmd

import (
	"fmt"
	"os"

	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gcmtools",
	Short: "Tools for patching files inside GameCube disc images",
	Long: `GCMTools - utilities for inspecting and patching GameCube (GCM) disc images,
built around Super Smash Bros. Melee character files.

Currently supports:
  - FST inspection (dump, list and extract files)
  - File injection (replace files of any size and rebuild the image)
  - DAT header inspection
  - Asset catalogs (list identifiers, generate a catalog from a disc)

Examples:
  gcmtools fst list ssbm.iso
  gcmtools fst extract ssbm.iso PlCaGr.dat -o PlCaGr.dat
  gcmtools inject -r CaptainFalcon.PlCaGr=falcon.dat -o patched.iso ssbm.iso
  gcmtools inject -m replacements.yaml --fst-out fst.bin -o patched.iso ssbm.iso
  gcmtools dat info ssbm.iso PlCaGr.dat
  gcmtools catalog list

Use 'gcmtools [command] --help' for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main() and serves as the entry point for command execution.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		common.LogError("%v", err)
		os.Exit(1)
	}
}

// setVerbose reads the verbose flag of cmd into the shared logging switch.
func setVerbose(cmd *cobra.Command) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("error getting verbose flag: %w", err)
	}
	common.SetVerboseMode(verbose)
	return nil
}
