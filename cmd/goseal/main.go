// goseal encrypts and decrypts files as versioned, resource-addressable
// blobs.
package main

import (
	"os"

	"github.com/idelchi/goseal/internal/commands"
	"github.com/idelchi/goseal/internal/config"
)

// version is set at build time.
var version = "dev"

func main() {
	cfg := &config.Config{}

	if err := commands.NewRootCommand(cfg, version).Execute(); err != nil {
		os.Exit(1)
	}
}
