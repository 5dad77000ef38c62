package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/registry.yaml
var registryTemplate embed.FS

// registryFileName is the default registry file name, matching what
// the loader searches for.
const registryFileName = "registry.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new psmap registry file",
		Long: `Init creates a registry.yaml file in the current directory.

The generated file includes:
- Commented examples for repointing built-in categories at newer
  extraction batches
- Commented examples for registering custom dataset sources
- Documentation for all available fields

Examples:
  # Create registry.yaml in the current directory
  psmap init

  # Create the registry file at a specific path
  psmap init -o ~/.config/psmap/registry.yaml

  # Force overwrite an existing file
  psmap init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", registryFileName,
		"Output file path for the registry")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing registry file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("registry file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := registryTemplate.ReadFile("templates/registry.yaml")
	if err != nil {
		return fmt.Errorf("failed to read registry template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created registry file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Repoint built-in categories at newer extraction batches")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Register custom CSV dataset sources")

	return nil
}
