// Package cmd provides command-line interface for file injection.
// This file contains the command that replaces files inside a GameCube
// disc image and writes a rebuilt image.
package cmd

import (
	"fmt"

	"github.com/hansbonini/gcmtools/pkg/gcm"
	"github.com/hansbonini/gcmtools/pkg/inject"
	"github.com/spf13/cobra"
)

var replacements replacementFlag

// injectCmd replaces files and rebuilds the disc image around them.
var injectCmd = &cobra.Command{
	Use:   "inject [image]",
	Short: "Replace files in a disc image and rebuild it",
	Long: `Replace files inside a GameCube disc image and write a rebuilt image.

Replacements may be of any size. The filesystem table is rewritten so every
file after a replaced one moves by the size difference (kept 4-byte aligned),
and the image is padded to a 32-byte boundary.

Targets are catalog identifiers (Group.Asset or a unique Asset key) or plain
file names. Each target must match exactly one file on the disc.

Replacements come from a YAML manifest (-m) and from repeated -r flags; the
manifest is applied first, then the flags, in order.

Manifest format:
  replacements:
    - target: CaptainFalcon.PlCaGr
      file: falcon-green.dat

Flags:
  -o, --output     Rebuilt image path (required)
  -r, --replace    Target=path replacement, may be repeated
  -m, --manifest   YAML manifest of replacements
  -c, --catalog    Asset catalog YAML (defaults to the built-in catalog)
      --fst-out    Also write the rewritten FST to this file
  -v, --verbose    Enable verbose output (show debug messages)

Examples:
  gcmtools inject -r CaptainFalcon.PlCaGr=falcon.dat -o patched.iso ssbm.iso
  gcmtools inject -r PlKbNr.dat=kirby.dat -r PlFxNr.dat=fox.dat -o patched.iso ssbm.iso
  gcmtools inject -m replacements.yaml --fst-out fst.bin -o patched.iso ssbm.iso`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]
		flagged := replacements.take()

		if err := setVerbose(cmd); err != nil {
			return err
		}

		outputFile, err := cmd.Flags().GetString("output")
		if err != nil {
			return fmt.Errorf("error getting output flag: %w", err)
		}
		manifestFile, err := cmd.Flags().GetString("manifest")
		if err != nil {
			return fmt.Errorf("error getting manifest flag: %w", err)
		}
		fstOut, err := cmd.Flags().GetString("fst-out")
		if err != nil {
			return fmt.Errorf("error getting fst-out flag: %w", err)
		}

		var requests []inject.Request
		if manifestFile != "" {
			requests, err = inject.LoadManifest(manifestFile)
			if err != nil {
				return err
			}
		}
		requests = append(requests, flagged...)

		assets, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("Source image: %s\n", inputFile)
		fmt.Printf("Output image: %s\n", outputFile)

		disc, err := gcm.Open(inputFile)
		if err != nil {
			return err
		}
		defer disc.Close()

		fmt.Printf("Applying %d replacement(s)...\n", len(requests))
		rebuilt, err := inject.Rebuild(disc, requests, assets.Lenient())
		if err != nil {
			return err
		}

		output, blob, err := inject.WriteOutputs(disc, rebuilt, outputFile, fstOut)
		if err != nil {
			return err
		}
		if blob != nil {
			fmt.Printf("FST written to: %s (%d bytes)\n", blob.Path, blob.Size)
		}

		fmt.Printf("Disc image rebuilt successfully!\n")
		fmt.Printf("\nSummary:\n")
		fmt.Printf("- Replaced %d file(s)\n", len(requests))
		fmt.Printf("- Image size: %d bytes (source %d bytes)\n", output.Size, disc.Size)
		fmt.Printf("- Digest: %s\n", output.Digest)
		return nil
	},
}

// init initializes the inject command with its flags.
func init() {
	rootCmd.AddCommand(injectCmd)

	injectCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")
	injectCmd.Flags().StringP("output", "o", "", "Rebuilt disc image path")
	injectCmd.Flags().StringP("manifest", "m", "", "YAML manifest of replacements")
	injectCmd.Flags().StringP("catalog", "c", "", "Asset catalog YAML (defaults to the built-in catalog)")
	injectCmd.Flags().String("fst-out", "", "Also write the rewritten FST to this file")
	injectCmd.Flags().VarP(&replacements, "replace", "r", "Replace a file, as Target=path (repeatable)")

	_ = injectCmd.MarkFlagRequired("output")
}
