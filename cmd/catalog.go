// Package cmd provides command-line interface for asset catalogs.
// This file contains commands for listing catalog identifiers and
// generating a catalog from the character files of a disc image.
package cmd

import (
	"fmt"
	"os"

	"github.com/hansbonini/gcmtools/pkg/catalog"
	"github.com/hansbonini/gcmtools/pkg/common"
	"github.com/hansbonini/gcmtools/pkg/gcm"
	"github.com/spf13/cobra"
)

// catalogCmd represents the parent command for all catalog operations.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Work with asset catalogs",
	Long: `Work with asset catalogs that map identifiers to disc file names.

Commands:
  list       List every identifier of a catalog
  generate   Build a catalog from the Pl*.dat files of a disc image

Examples:
  gcmtools catalog list
  gcmtools catalog list -c my-catalog.yaml
  gcmtools catalog generate ssbm.iso -o my-catalog.yaml`,
}

// catalogListCmd prints identifiers, file names and descriptions.
var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog identifiers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setVerbose(cmd); err != nil {
			return err
		}

		assets, err := loadCatalog(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-32s | %-16s | %s\n", "Identifier", "File", "Description")
		fmt.Fprintf(out, "---------------------------------|------------------|------------------------------\n")
		for _, entry := range assets.Entries() {
			fmt.Fprintf(out, "%-32s | %-16s | %s\n", entry.ID, entry.File, entry.Description)
		}
		return nil
	},
}

// catalogGenerateCmd scans a disc for character files and emits a catalog.
var catalogGenerateCmd = &cobra.Command{
	Use:   "generate [image]",
	Short: "Generate a catalog from a disc image",
	Long: `Generate an asset catalog from the character files (Pl*.dat) of a disc image.

Files are grouped by their two-letter character code and described by their
costume suffix. The catalog is written as YAML to stdout or to -o.

Example:
  gcmtools catalog generate ssbm.iso -o my-catalog.yaml`,
	Args: cobra.ExactArgs(1),
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

		files, err := table.Files()
		if err != nil {
			return common.FormatError(common.ErrFailedToParseFST, err)
		}

		data, err := catalog.Generate(files, disc.Header.GameID()).Marshal()
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
		fmt.Fprintf(cmd.ErrOrStderr(), "Catalog written to: %s\n", outputFile)
		return nil
	},
}

// loadCatalog returns the catalog named by the command's catalog flag, or the built-in one.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	path, err := cmd.Flags().GetString("catalog")
	if err != nil {
		return nil, fmt.Errorf("error getting catalog flag: %w", err)
	}

	var assets *catalog.Catalog
	if path == "" {
		common.LogDebug(common.InfoCatalogDefaultInUse)
		assets, err = catalog.Default()
	} else {
		assets, err = catalog.Load(path)
	}
	if err != nil {
		return nil, err
	}

	common.LogDebug(common.InfoCatalogLoaded, assets.Len())
	return assets, nil
}

// init initializes the catalog command and its subcommands with appropriate flags.
func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogGenerateCmd)

	catalogListCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")
	catalogListCmd.Flags().StringP("catalog", "c", "", "Asset catalog YAML (defaults to the built-in catalog)")

	catalogGenerateCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")
	catalogGenerateCmd.Flags().StringP("output", "o", "", "Write the catalog here instead of stdout")
}
