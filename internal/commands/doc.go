// Package commands provides the command-line interface for the goseal tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - resource identifier extraction
//   - key generation
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/goseal/internal/config"
)

// preRun returns a PreRunE handler that resolves positional args into
// cfg.Files and validates the configuration.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		cfg.Files = args

		return cobraext.Validate(cfg, cfg)
	}
}
