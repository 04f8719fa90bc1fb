// Package config loads the settings enumerated in spec.md §6.4 from,
// in priority order: explicit overrides, environment variables, and an
// optional on-disk YAML file. Grounded on the teacher's config loading
// conventions (environment-first, struct-tag driven).
package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/gorilla/schema"
)

const (
	// DefaultTransportURI is used when NDN_CLIENT_TRANSPORT is absent
	// and no config file sets `transport` (spec.md §6.4 "Absent →
	// default Unix socket").
	DefaultTransportURI = "unix:///run/nfd/nfd.sock"

	// DefaultStoreCapacity matches spec.md §6.4's documented default.
	DefaultStoreCapacity = 16

	// DefaultFreshness matches spec.md §6.4 "Default content freshness".
	DefaultFreshness = time.Second

	// MaxPacketSize matches spec.md §6.4.
	MaxPacketSize = 8800
)

// recognizedSchemes are the transport URI schemes spec.md §6.4 names,
// supplemented with ws/wss per SPEC_FULL.md §3 (real NDN forwarders
// support WebSocket faces alongside unix/tcp).
var recognizedSchemes = map[string]bool{
	"unix": true, "tcp": true, "tcp4": true, "tcp6": true,
	"ws": true, "wss": true,
}

// Config is the fully resolved set of settings spec.md §6.4 enumerates.
type Config struct {
	TransportURI   string
	StoreCapacity  int
	DefaultFreshness time.Duration
	MaxPacketSize  int
}

// fileConfig mirrors the optional on-disk YAML file's shape.
type fileConfig struct {
	Transport        string `yaml:"transport"`
	StoreCapacity    *int   `yaml:"store_capacity"`
	DefaultFreshnessMS *int64 `yaml:"default_freshness_ms"`
	MaxPacketSize    *int   `yaml:"max_packet_size"`
}

// Option overrides a resolved Config field explicitly, taking priority
// over both environment variables and any config file (spec.md §6.4's
// "in priority order" resolution, SPEC_FULL.md §2.2).
type Option func(*Config)

// WithTransportURI overrides the resolved transport URI.
func WithTransportURI(uri string) Option {
	return func(c *Config) { c.TransportURI = uri }
}

// WithStoreCapacity overrides the resolved store capacity.
func WithStoreCapacity(n int) Option {
	return func(c *Config) { c.StoreCapacity = n }
}

// Load resolves a Config from environment variables and, if path is
// non-empty and the file exists, an on-disk YAML file, then applies
// opts as the highest-priority overrides.
func Load(path string, opts ...Option) (Config, error) {
	c := Config{
		TransportURI:     DefaultTransportURI,
		StoreCapacity:    DefaultStoreCapacity,
		DefaultFreshness: DefaultFreshness,
		MaxPacketSize:    MaxPacketSize,
	}

	if path != "" {
		if err := applyFile(&c, path); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&c)

	for _, opt := range opts {
		opt(&c)
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func applyFile(c *Config, path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if fc.Transport != "" {
		c.TransportURI = fc.Transport
	}
	if fc.StoreCapacity != nil {
		c.StoreCapacity = *fc.StoreCapacity
	}
	if fc.DefaultFreshnessMS != nil {
		c.DefaultFreshness = time.Duration(*fc.DefaultFreshnessMS) * time.Millisecond
	}
	if fc.MaxPacketSize != nil {
		c.MaxPacketSize = *fc.MaxPacketSize
	}
	return nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("NDN_CLIENT_TRANSPORT"); v != "" {
		c.TransportURI = v
	}
	if v := os.Getenv("NDN_CLIENT_STORE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.StoreCapacity = n
		}
	}
	if v := os.Getenv("NDN_CLIENT_DEFAULT_FRESHNESS_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.DefaultFreshness = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("NDN_CLIENT_MAX_PACKET_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPacketSize = n
		}
	}
}

func validate(c Config) error {
	u, err := url.Parse(c.TransportURI)
	if err != nil {
		return fmt.Errorf("config: invalid transport URI %q: %w", c.TransportURI, err)
	}
	if !recognizedSchemes[u.Scheme] {
		return fmt.Errorf("config: unrecognized transport scheme %q", u.Scheme)
	}
	return nil
}

// TransportOptions is the typed form of a transport URI's query string
// (e.g. `tcp://127.0.0.1:6363?timeout=2s&insecure=true`), decoded with
// gorilla/schema (SPEC_FULL.md §2.2).
type TransportOptions struct {
	Timeout  time.Duration `schema:"timeout"`
	Insecure bool          `schema:"insecure"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(time.Duration(0), func(s string) reflect.Value {
		d, err := time.ParseDuration(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(d)
	})
}

// ParseTransportURI splits uri into its address (scheme://host form,
// query string stripped) and its decoded TransportOptions.
func ParseTransportURI(uri string) (addr string, opts TransportOptions, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", TransportOptions{}, err
	}
	if !recognizedSchemes[u.Scheme] {
		return "", TransportOptions{}, fmt.Errorf("config: unrecognized transport scheme %q", u.Scheme)
	}
	if err := decoder.Decode(&opts, u.Query()); err != nil {
		return "", TransportOptions{}, fmt.Errorf("config: decoding transport options: %w", err)
	}
	stripped := *u
	stripped.RawQuery = ""
	return stripped.String(), opts, nil
}
