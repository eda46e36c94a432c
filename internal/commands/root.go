package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/goseal/internal/config"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "goseal [flags] command [flags]"
	root.Short = "Resource encryption utility"
	root.Long = `A resource encryption utility built on versioned binary formats:
one-shot sealing for small payloads and chunked streaming with optional
length-hiding padding for arbitrarily large ones. Every encrypted resource
is addressable by a 16-byte resource identifier.`

	root.PersistentFlags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().Bool("stats", false, "Print processing statistics")
	root.PersistentFlags().BoolP("delete", "d", false, "Delete the original file after successful encryption/decryption")

	root.PersistentFlags().StringP("key", "k", "", "Symmetric key (32 bytes, hex-encoded)")
	root.PersistentFlags().StringP("key-file", "f", "", "Path to a file holding the symmetric key (32 bytes, hex-encoded)")
	root.PersistentFlags().StringP("keyring", "r", "", "Path to a YAML keyring mapping resource ids to keys")

	root.PersistentFlags().String("encrypt-ext", ".sealed", "Suffix to append to encrypted files")
	root.PersistentFlags().String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	root.PersistentFlags().StringSliceP("include", "i", nil, "Include patterns for directory arguments (find -path semantics)")
	root.PersistentFlags().StringSliceP("exclude", "e", nil, "Exclude patterns for directory arguments (find -path semantics)")
	root.PersistentFlags().String("include-from", "", "JSONC file with include patterns")
	root.PersistentFlags().String("exclude-from", "", "JSONC file with exclude patterns")

	root.AddCommand(
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewResourceIDCommand(cfg),
		NewGenerateCommand(),
	)

	return root
}
