package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/p2c/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration file.
//
// Refuses to overwrite an existing file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	outputPath := cmd.String("output")
	if outputPath == "" {
		return fmt.Errorf("%w: --output", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := shared.CreateConfigFile(outputPath); err != nil {
		return err
	}
	defaults := shared.DefaultConfig()
	r.logger.Info("config file created", "path", outputPath, "host", defaults.Host)

	r.writePlain("Config written to %s\n", outputPath)
	r.writePlain("Next steps:\n")
	r.writePlain("1. Set token in %s and change host if your server is not at %s\n", outputPath, defaults.Host)
	r.writePlain("2. Run 'p2c check' to test the connection\n")
	return nil
}
