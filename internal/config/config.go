// Package config loads wikilist settings from the environment.
//
// Settings come from WIKILIST_* environment variables, optionally seeded
// from a .env file. Unset directories follow the XDG base directory layout.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
)

// Prefix is the environment variable prefix.
const Prefix = "WIKILIST"

const appName = "wikilist"

// Defaults, mirrored by the struct tags of [Config].
const (
	DefaultAPIURL         = "https://www.arathia.net/w/api.php"
	DefaultWikiURL        = "https://www.arathia.net"
	DefaultConcurrency    = 10
	DefaultRequestTimeout = 15 * time.Second
	DefaultCacheTTL       = 24 * time.Hour
	DefaultListTTL        = time.Hour
	DefaultMaxBackups     = 5
	DefaultMongoDatabase  = "wikilist"
	DefaultListenAddr     = ":8080"
)

// Config holds all environment-based configuration.
type Config struct {
	// APIURL is the MediaWiki api.php endpoint.
	// Env: WIKILIST_API_URL
	APIURL string `envconfig:"API_URL" default:"https://www.arathia.net/w/api.php"`

	// WikiURL is the base URL article links point to.
	// Env: WIKILIST_WIKI_URL
	WikiURL string `envconfig:"WIKI_URL" default:"https://www.arathia.net"`

	// Concurrency bounds in-flight category lookups.
	// Env: WIKILIST_CONCURRENCY (default: 10)
	Concurrency int `envconfig:"CONCURRENCY" default:"10"`

	// RequestTimeout limits a single category lookup.
	// Env: WIKILIST_REQUEST_TIMEOUT (default: 15s)
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"15s"`

	// IgnoreCategories are maintenance categories skipped in responses.
	// Env: WIKILIST_IGNORE_CATEGORIES (comma-separated)
	IgnoreCategories []string `envconfig:"IGNORE_CATEGORIES" default:"Pages with broken file links"`

	// CacheDir holds the file cache. Defaults to $XDG_CACHE_HOME/wikilist.
	CacheDir string `envconfig:"CACHE_DIR"`

	// CacheTTL is how long API responses are cached.
	// Env: WIKILIST_CACHE_TTL (default: 24h)
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"24h"`

	// ListTTL is how long aggregated lists are cached.
	// Env: WIKILIST_LIST_TTL (default: 1h)
	ListTTL time.Duration `envconfig:"LIST_TTL" default:"1h"`

	// RedisURL selects the Redis cache backend when set.
	RedisURL string `envconfig:"REDIS_URL"`

	// SaveDir holds file saves. Defaults to $XDG_DATA_HOME/wikilist/saves.
	SaveDir string `envconfig:"SAVE_DIR"`

	// MaxBackups caps the backups kept per save.
	// Env: WIKILIST_MAX_BACKUPS (default: 5)
	MaxBackups int `envconfig:"MAX_BACKUPS" default:"5"`

	// BackupEnabled controls backups on overwrite.
	// Env: WIKILIST_BACKUP_ENABLED (default: true)
	BackupEnabled bool `envconfig:"BACKUP_ENABLED" default:"true"`

	// MongoURI selects the MongoDB save backend when set.
	MongoURI string `envconfig:"MONGO_URI"`

	// MongoDatabase names the MongoDB database.
	// Env: WIKILIST_MONGO_DATABASE (default: wikilist)
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"wikilist"`

	// ListsFile is a TOML file of extra list definitions.
	ListsFile string `envconfig:"LISTS_FILE"`

	// HeadFile replaces the default <head> of HTML previews.
	HeadFile string `envconfig:"HEAD_FILE"`

	// ListenAddr is the preview server address.
	// Env: WIKILIST_LISTEN_ADDR (default: :8080)
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
}

// Load reads envPath (".env" when empty, skipped when missing) and then the
// environment. Unset directories are filled in from the XDG layout.
func Load(envPath string) (Config, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return Config{}, wlerrors.Wrap(wlerrors.ErrCodeInvalidInput, err, "load %s", envPath)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the environment only.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, wlerrors.Wrap(wlerrors.ErrCodeInvalidInput, err, "read environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = CacheDir()
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = filepath.Join(DataDir(), "saves")
	}
	return cfg, nil
}

// Validate checks value ranges envconfig cannot express.
func (c Config) Validate() error {
	switch {
	case c.Concurrency < 1:
		return wlerrors.New(wlerrors.ErrCodeInvalidInput, "concurrency must be positive, got %d", c.Concurrency)
	case c.RequestTimeout <= 0:
		return wlerrors.New(wlerrors.ErrCodeInvalidInput, "request timeout must be positive, got %s", c.RequestTimeout)
	case c.MaxBackups < 0:
		return wlerrors.New(wlerrors.ErrCodeInvalidInput, "max backups must not be negative, got %d", c.MaxBackups)
	case c.APIURL == "":
		return wlerrors.New(wlerrors.ErrCodeInvalidInput, "api url is empty")
	}
	return nil
}

// CacheDir returns $XDG_CACHE_HOME/wikilist, or ~/.cache/wikilist.
func CacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(homeDir(), ".cache", appName)
}

// DataDir returns $XDG_DATA_HOME/wikilist, or ~/.local/share/wikilist.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(homeDir(), ".local", "share", appName)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return home
}
