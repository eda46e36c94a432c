package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/logic"
)

// NewResourceIDCommand creates a new cobra command for the resource-id
// subcommand. No key is needed: the identifier is readable from the blob.
func NewResourceIDCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "resource-id paths...",
		Aliases: []string{"id"},
		Short:   "Print the resource identifier of encrypted files",
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.RunResourceID(cfg)
		},
	}
}
