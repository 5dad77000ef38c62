package main

import (
	"encoding/json"
	"fmt"

	"github.com/opensante/psmap/internal/config"
	"github.com/opensante/psmap/internal/registry"
	"github.com/spf13/cobra"
)

// NewCategoriesCmd creates the categories command.
func NewCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the registered dataset categories",
		Long: `Categories lists every dataset source psmap knows about: the
built-in annuaire santé extracts plus any definitions from the
registry file.

Examples:
  # List categories
  psmap categories

  # Include source URLs
  psmap categories --urls

  # Machine-readable listing
  psmap categories --json`,
		Args: cobra.NoArgs,
		RunE: runCategoriesCmd,
	}

	cmd.Flags().BoolP("urls", "u", false, "Show the source URL of each category")
	cmd.Flags().BoolP("json", "j", false, "Output the listing as JSON")

	return cmd
}

// runCategoriesCmd executes the categories command.
func runCategoriesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	registryPath := registry.FindFile(cfg.RegistryPath, config.XDGConfigDir())
	if registryPath == "" && cfg.RegistryPath != "" {
		return fmt.Errorf("registry file not found: %s", cfg.RegistryPath)
	}
	reg, err := registry.Load(registryPath)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	withURLs, err := cmd.Flags().GetBool("urls")
	if err != nil {
		return err
	}

	cats := reg.Categories()
	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(cats)
	}

	for _, c := range cats {
		if withURLs {
			fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-28s %s\n", c.Key, c.Label, c.URL)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-28s %s\n", c.Key, c.Label)
	}
	return nil
}
