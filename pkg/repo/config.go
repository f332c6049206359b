package repo

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/odvcencio/vcsettings/pkg/object"
)

// Config holds repository settings.
type Config struct {
	// DefaultBranch is the branch HEAD follows in a new repository.
	DefaultBranch string `toml:"default_branch"`
	// CheckoutCacheSize bounds the checkout memo cache. Zero or less keeps
	// every resolved commit for the life of the repository.
	CheckoutCacheSize int `toml:"checkout_cache_size"`
	// Metadata is attached, in order, to every commit.
	Metadata []MetaEntry `toml:"metadata"`
}

// MetaEntry is one configured commit metadata pair.
type MetaEntry struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
}

// DefaultConfig returns the settings used when none are supplied.
func DefaultConfig() Config {
	return Config{
		DefaultBranch: "main",
		Metadata: []MetaEntry{
			{Key: "loader", Value: "library"},
			{Key: "message", Value: "Some message"},
		},
	}
}

// ParseConfig decodes a TOML document on top of DefaultConfig. Unknown keys
// are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %v: %w", err, object.ErrInvalidInput)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("parse config: unknown keys %s: %w", strings.Join(keys, ", "), object.ErrInvalidInput)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

func (c Config) validate() error {
	if c.DefaultBranch != "" && strings.ContainsAny(c.DefaultBranch, " \t\n") {
		return fmt.Errorf("default branch %q contains whitespace: %w", c.DefaultBranch, object.ErrInvalidInput)
	}
	for i, m := range c.Metadata {
		if m.Key == "" {
			return fmt.Errorf("metadata entry %d has an empty key: %w", i, object.ErrInvalidInput)
		}
		if m.Key == object.SignatureKey {
			return fmt.Errorf("metadata key %q is reserved: %w", m.Key, object.ErrInvalidInput)
		}
	}
	return nil
}

func (c Config) normalized() Config {
	out := c.clone()
	if strings.TrimSpace(out.DefaultBranch) == "" {
		out.DefaultBranch = "main"
	}
	return out
}

func (c Config) clone() Config {
	out := c
	out.Metadata = append([]MetaEntry(nil), c.Metadata...)
	return out
}

func (c Config) metaPairs() []object.MetaPair {
	pairs := make([]object.MetaPair, 0, len(c.Metadata))
	for _, m := range c.Metadata {
		pairs = append(pairs, object.MetaPair{Key: m.Key, Value: m.Value})
	}
	return pairs
}
