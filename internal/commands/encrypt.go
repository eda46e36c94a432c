package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/logic"
	"github.com/idelchi/goseal/pkg/format"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags] paths...",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Long: `Encrypt files into versioned blobs. Small payloads are sealed in one
shot; larger ones, and any encryption with --chunked or --padding, stream
through fixed-capacity chunks. With --keyring, a fresh key is generated per
file and recorded under its resource id.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(cfg),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.Run(cfg)
		},
	}

	cmd.Flags().Bool("chunked", false, "Force the chunked format even for small payloads")
	cmd.Flags().Uint32("chunk-size", format.DefaultChunkCapacity, "Clear capacity of one chunk in bytes")
	cmd.Flags().StringP("padding", "p", "off", "Length-hiding padding: off, auto, or an integer step")

	return cmd
}
