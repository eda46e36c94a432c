package config_test

import (
	"errors"
	"testing"

	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/pkg/format"
)

func TestPaddingSpec(t *testing.T) {
	t.Parallel()

	valid := map[string]struct {
		flag    string
		enabled bool
	}{
		"empty defaults to off": {flag: "", enabled: false},
		"off":                   {flag: "off", enabled: false},
		"auto":                  {flag: "auto", enabled: true},
		"mixed case":            {flag: "Auto", enabled: true},
		"step":                  {flag: "500", enabled: true},
	}

	for name, tc := range valid {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Config{Padding: tc.flag}

			spec, err := cfg.PaddingSpec()
			if err != nil {
				t.Fatalf("PaddingSpec(%q): %v", tc.flag, err)
			}

			if spec.Enabled() != tc.enabled {
				t.Errorf("PaddingSpec(%q).Enabled() = %t, want %t", tc.flag, spec.Enabled(), tc.enabled)
			}
		})
	}

	for _, flag := range []string{"x", "-1", "0", "1", "2.5"} {
		cfg := config.Config{Padding: flag}

		if _, err := cfg.PaddingSpec(); !errors.Is(err, format.ErrInvalidArgument) {
			t.Errorf("PaddingSpec(%q) = %v, want ErrInvalidArgument", flag, err)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := config.Config{
		Parallel: 1,
		Padding:  "off",
		Files:    []string{"a.txt"},
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("Validate on a minimal config: %v", err)
	}

	cases := map[string]func(c *config.Config){
		"no files":            func(c *config.Config) { c.Files = nil },
		"zero parallelism":    func(c *config.Config) { c.Parallel = 0 },
		"bad padding":         func(c *config.Config) { c.Padding = "sometimes" },
		"step below minimum":  func(c *config.Config) { c.Padding = "1" },
		"non-hex key":         func(c *config.Config) { c.Key.String = "zz" },
		"short key":           func(c *config.Config) { c.Key.String = "abcd" },
		"key and key file":    func(c *config.Config) { c.Key.String = validKey; c.Key.File = "key.txt" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := base
			mutate(&cfg)

			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

const validKey = "000102030405060708090a0b0c0d0e0f000102030405060708090a0b0c0d0e0f"
