// Package config defines the runtime configuration of the goseal tool and
// its validation rules.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/idelchi/goseal/pkg/format"
	"github.com/idelchi/goseal/pkg/padding"
)

// Key holds the symmetric key, either inline or from a file. The two are
// mutually exclusive.
type Key struct {
	String string `label:"key"      mapstructure:"key"      validate:"exclusive=File,omitempty,hexadecimal,len=64"`
	File   string `label:"key-file" mapstructure:"key-file" validate:"exclusive=String"`
}

// Suffixes holds the file name suffixes applied to outputs.
type Suffixes struct {
	Encrypt string `mapstructure:"encrypt-ext"`
	Decrypt string `mapstructure:"decrypt-ext"`
}

// Config holds the runtime configuration.
type Config struct {
	// Common flags
	Quiet    bool
	Stats    bool
	Delete   bool
	Parallel int `validate:"min=1"`

	Key      Key      `mapstructure:",squash"`
	Keyring  string
	Suffixes Suffixes `mapstructure:",squash"`

	// File selection for directory arguments
	Include     []string
	Exclude     []string
	IncludeFrom string `mapstructure:"include-from"`
	ExcludeFrom string `mapstructure:"exclude-from"`

	// Encrypt-specific flags
	Chunked   bool
	ChunkSize uint32 `mapstructure:"chunk-size" validate:"omitempty,min=1"`
	Padding   string `validate:"paddingmode"`

	// Mode selection
	Decrypt bool

	// Positional arguments
	Files []string `validate:"min=1"`
}

// PaddingSpec parses the padding flag into an engine padding spec.
// Accepted values: "off", "auto", or an integer step of at least 2.
func (c *Config) PaddingSpec() (padding.Spec, error) {
	switch strings.ToLower(c.Padding) {
	case "", "off":
		return padding.Off(), nil
	case "auto":
		return padding.Auto(), nil
	}

	step, err := strconv.Atoi(c.Padding)
	if err != nil {
		return padding.Spec{}, fmt.Errorf("%w: padding must be off, auto or an integer step: %q", format.ErrInvalidArgument, c.Padding)
	}

	spec, err := padding.Step(step)
	if err != nil {
		return padding.Spec{}, fmt.Errorf("%w: %v", format.ErrInvalidArgument, err)
	}

	return spec, nil
}
