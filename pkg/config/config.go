// Package config loads graphviewer settings.
//
// Settings are layered, later sources overriding earlier ones:
//
//  1. built-in defaults
//  2. graphviewer.toml in the working directory (or the path in
//     GRAPHVIEWER_CONFIG)
//  3. GRAPHVIEWER_* environment variables, with "_" separating sections
//     (GRAPHVIEWER_CACHE_BACKEND=redis sets cache.backend)
//  4. command-line flags that were set explicitly
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/graphviewer/pkg/visual"
)

// FileName is the config file looked up in the working directory.
const FileName = "graphviewer.toml"

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "GRAPHVIEWER_"

// Cache backends.
const (
	BackendFile  = "file"
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config holds all configuration for the application.
type Config struct {
	Font   visual.Font  `koanf:"font" toml:"font"`
	Margin Margin       `koanf:"margin" toml:"margin"`
	Render RenderConfig `koanf:"render" toml:"render"`
	Cache  CacheConfig  `koanf:"cache" toml:"cache"`
	Server ServerConfig `koanf:"server" toml:"server"`
	Watch  WatchConfig  `koanf:"watch" toml:"watch"`
	Log    LogConfig    `koanf:"log" toml:"log"`
}

// Margin is the padding added around a node label on each side.
type Margin struct {
	X float64 `koanf:"x" toml:"x"`
	Y float64 `koanf:"y" toml:"y"`
}

type RenderConfig struct {
	Padding  float64 `koanf:"padding" toml:"padding"`
	Scale    float64 `koanf:"scale" toml:"scale"`
	Detailed bool    `koanf:"detailed" toml:"detailed"`
}

type CacheConfig struct {
	Backend string `koanf:"backend" toml:"backend"`
	Dir     string `koanf:"dir" toml:"dir"`
	Redis   string `koanf:"redis" toml:"redis"` // redis:// URL
	Mongo   string `koanf:"mongo" toml:"mongo"` // mongodb:// URI
	DB      string `koanf:"db" toml:"db"`       // MongoDB database
}

type ServerConfig struct {
	Addr string `koanf:"addr" toml:"addr"`
}

type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce" toml:"debounce"`
}

type LogConfig struct {
	Level string `koanf:"level" toml:"level"`
}

// Defaults returns the built-in configuration.
func Defaults() map[string]any {
	return map[string]any{
		"font.family":     visual.DefaultFont.Family,
		"font.size":       visual.DefaultFont.Size,
		"margin.x":        5.0,
		"margin.y":        10.0,
		"render.padding":  20.0,
		"render.scale":    2.0,
		"render.detailed": false,
		"cache.backend":   BackendFile,
		"cache.dir":       "",
		"cache.redis":     "",
		"cache.mongo":     "",
		"cache.db":        "graphviewer",
		"server.addr":     ":8080",
		"watch.debounce":  "300ms",
		"log.level":       "info",
	}
}

// flagKeys maps flag names whose config key is not the flag name with "-"
// replaced by ".".
var flagKeys = map[string]string{
	"addr":     "server.addr",
	"padding":  "render.padding",
	"scale":    "render.scale",
	"detailed": "render.detailed",
	"cache":    "cache.backend",
	"debounce": "watch.debounce",
}

// FlagKey returns the config key a flag name binds to.
func FlagKey(name string) string {
	if k, ok := flagKeys[name]; ok {
		return k
	}
	return strings.ReplaceAll(name, "-", ".")
}

// Load reads configuration from defaults, config file, environment
// variables, and flags. Unknown flags (those that map to no config key) are
// ignored. f may be nil.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	path := os.Getenv(EnvPrefix + "CONFIG")
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if err := k.Load(file.Provider(path), Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if f != nil {
		known := Defaults()
		provider := posflag.ProviderWithFlag(f, ".", k, func(fl *pflag.Flag) (string, any) {
			key := FlagKey(fl.Name)
			if _, ok := known[key]; !ok {
				return "", nil
			}
			return key, posflag.FlagVal(f, fl)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// mapProvider serves a flat, dot-delimited map as a koanf provider.
type mapProvider map[string]any

func (p mapProvider) Read() (map[string]any, error) {
	out := make(map[string]any, len(p))
	for key, v := range p {
		setNested(out, strings.Split(key, "."), v)
	}
	return out, nil
}

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}

func setNested(m map[string]any, path []string, v any) {
	for _, seg := range path[:len(path)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[seg] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}
