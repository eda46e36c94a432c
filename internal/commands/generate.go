package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idelchi/goseal/pkg/format"
)

// NewGenerateCommand creates a new cobra command for the generate
// subcommand.
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a new symmetric key",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			key, err := format.NewKey()
			if err != nil {
				return fmt.Errorf("generating key: %w", err)
			}

			fmt.Println(hex.EncodeToString(key)) //nolint:forbidigo

			return nil
		},
	}
}
