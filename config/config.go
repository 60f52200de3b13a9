// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/siemens/inetaddr/resolver"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format of configuration data.
type Format string

// Supported configuration formats.
const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// Configuration loading errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
	ErrInvalid           = errors.New("invalid configuration")
)

// Config is the complete configuration of the resolver, DNS, and ping
// collaborators.
type Config struct {
	Resolver Resolver `koanf:"resolver"`
	Ping     Ping     `koanf:"ping"`
	Netns    string   `koanf:"netns"` // path of network namespace to operate in, if any.
}

// Resolver configures the DNS pool and the resolver's address cache.
type Resolver struct {
	Server   string        `koanf:"server"`   // DNS server address, "host:port".
	Workers  int           `koanf:"workers"`  // number of DNS connections/workers.
	Timeout  time.Duration `koanf:"timeout"`  // per DNS query.
	Cache    Cache         `koanf:"cache"`    // address cache.
	Loopback string        `koanf:"loopback"` // "system", "ipv4", or "ipv6".
}

// Cache configures the address cache; a zero size or TTL disables caching.
type Cache struct {
	Size int           `koanf:"size"`
	TTL  time.Duration `koanf:"ttl"`
}

// Ping configures reachability verification.
type Ping struct {
	Count        uint          `koanf:"count"`
	Interval     time.Duration `koanf:"interval"`
	Threshold    uint          `koanf:"threshold"` // percentage of replies.
	Unprivileged bool          `koanf:"unprivileged"`
	Timeout      time.Duration `koanf:"timeout"` // for single reachability probes.
	TTL          uint8         `koanf:"ttl"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Resolver: Resolver{
			Server:  "127.0.0.1:53",
			Workers: 4,
			Timeout: 2 * time.Second,
			Cache: Cache{
				Size: resolver.DefaultCacheSize,
				TTL:  resolver.DefaultCacheTTL,
			},
			Loopback: resolver.PreferSystem.String(),
		},
		Ping: Ping{
			Count:     3,
			Interval:  time.Second,
			Threshold: 50,
			Timeout:   5 * time.Second,
		},
	}
}

// Load returns the configuration from the specified file, with the format
// derived from the file name extension. Settings missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = YAML
	case ".json":
		format = JSON
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read configuration: %w", err)
	}
	return FromBytes(data, format)
}

// FromBytes returns the configuration from the specified data in the specified
// format. Settings missing from the data keep their default values. Empty data
// is fine and returns the default configuration.
func FromBytes(data []byte, format Format) (Config, error) {
	var parser koanf.Parser
	switch format {
	case YAML:
		parser = yaml.Parser()
	case JSON:
		parser = json.Parser()
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	k := koanf.New(".")
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return Config{}, fmt.Errorf("cannot parse configuration: %w", err)
		}
	}
	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("cannot decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid settings.
func (c Config) Validate() error {
	if c.Resolver.Server == "" {
		return fmt.Errorf("%w: resolver.server must not be empty", ErrInvalid)
	}
	if c.Resolver.Workers < 1 {
		return fmt.Errorf("%w: resolver.workers must be at least 1, got %d",
			ErrInvalid, c.Resolver.Workers)
	}
	if c.Resolver.Cache.Size < 0 || c.Resolver.Cache.TTL < 0 {
		return fmt.Errorf("%w: resolver.cache size and ttl must not be negative", ErrInvalid)
	}
	if _, err := resolver.ParseLoopbackPolicy(c.Resolver.Loopback); err != nil {
		return fmt.Errorf("%w: resolver.loopback: %w", ErrInvalid, err)
	}
	if c.Ping.Threshold > 100 {
		return fmt.Errorf("%w: ping.threshold must be a percentage, got %d",
			ErrInvalid, c.Ping.Threshold)
	}
	if c.Ping.Count < 1 {
		return fmt.Errorf("%w: ping.count must be at least 1", ErrInvalid)
	}
	return nil
}

// LoopbackPolicy returns the configured loopback policy.
func (c Config) LoopbackPolicy() resolver.LoopbackPolicy {
	policy, _ := resolver.ParseLoopbackPolicy(c.Resolver.Loopback)
	return policy
}
