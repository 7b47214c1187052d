package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/solhydra/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/solhydra.yaml
var configTemplate embed.FS

// configTemplatePath is the template path inside configTemplate.
const configTemplatePath = "templates/solhydra.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new solhydra configuration file",
		Long: `Initialize creates a new .solhydra configuration file in the current directory.

The generated file includes:
- The built-in tool to content type table
- The contracts excluded from reports
- Documentation for all available options

Examples:
  # Create .solhydra in current directory
  solhydra init

  # Create config file at a specific path
  solhydra init -o myconfig.yaml

  # Force overwrite existing file
  solhydra init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

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
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(configTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to change:")
	fmt.Fprintln(out, "  - How each tool's output is displayed")
	fmt.Fprintln(out, "  - Which contracts are left out of the report")
	fmt.Fprintln(out, "  - The report title and the pane opened first")

	return nil
}
