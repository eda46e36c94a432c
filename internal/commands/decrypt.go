package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/logic"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decrypt [flags] paths...",
		Aliases: []string{"dec"},
		Short:   "Decrypt files",
		Long: `Decrypt blobs of any supported format version. The key is resolved
from the keyring by the blob's resource id, or taken from --key/--key-file.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := preRun(cfg)(cmd, args); err != nil {
				return err
			}

			cfg.Decrypt = true

			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.Run(cfg)
		},
	}

	return cmd
}
