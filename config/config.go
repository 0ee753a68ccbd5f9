// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"TRANSTRINGS_HOST"                  yaml:"host"`
		Port                     string      `env:"TRANSTRINGS_PORT"                  yaml:"port"`
		UnixSocket               string      `env:"TRANSTRINGS_UNIXSOCKET"            yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"TRANSTRINGS_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"TRANSTRINGS_UNIXSOCKET_USER"       yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"TRANSTRINGS_UNIXSOCKET_GROUP"      yaml:"unixSocketGroup"`
	} `yaml:"basic"`

	// Project describes where the application being translated lives on disk.
	Project struct {
		// BasePath is the root every other path is resolved against.
		BasePath string `env:"TRANSTRINGS_BASE_PATH" yaml:"basePath"`
		// ViewPaths are the template search paths of the application.
		ViewPaths []string `env:"TRANSTRINGS_VIEW_PATHS" yaml:"viewPaths"`
		// ParserViewPaths, when set, replace ViewPaths for string extraction.
		ParserViewPaths []string `env:"TRANSTRINGS_PARSER_VIEW_PATHS" yaml:"parserViewPaths"`
		// SourcePaths are always scanned in addition to the view paths.
		SourcePaths []string `env:"TRANSTRINGS_SOURCE_PATHS" yaml:"sourcePaths"`
	} `yaml:"project"`

	Extraction struct {
		TemplateFormat     string   `env:"TRANSTRINGS_TEMPLATE_FORMAT"     yaml:"templateFormat"`
		TemplateTag        string   `env:"TRANSTRINGS_TEMPLATE_TAG"        yaml:"templateTag"`
		TemplateExtensions []string `env:"TRANSTRINGS_TEMPLATE_EXTENSIONS" yaml:"templateExtensions"`
		SourceFormat       string   `env:"TRANSTRINGS_SOURCE_FORMAT"       yaml:"sourceFormat"`
		FunctionName       string   `env:"TRANSTRINGS_FUNCTION_NAME"       yaml:"functionName"`
		SourceExtensions   []string `env:"TRANSTRINGS_SOURCE_EXTENSIONS"   yaml:"sourceExtensions"`
		// MaxDepth limits directory recursion; 0 means unlimited.
		MaxDepth    int `env:"TRANSTRINGS_MAX_DEPTH"   yaml:"maxDepth"`
		Concurrency int `env:"TRANSTRINGS_CONCURRENCY" yaml:"concurrency"`
		// CacheSize is the number of scanned files remembered between loads; 0 disables the cache.
		CacheSize int `env:"TRANSTRINGS_SCAN_CACHE_SIZE" yaml:"cacheSize"`
	} `yaml:"extraction"`

	Storage struct {
		Directory string `env:"TRANSTRINGS_STORAGE_DIRECTORY" yaml:"directory"`
		Domain    string `env:"TRANSTRINGS_STORAGE_DOMAIN"    yaml:"domain"`
	} `yaml:"storage"`

	Translator struct {
		Locales          []string `env:"TRANSTRINGS_LOCALES"           yaml:"locales"`
		CatalogDirectory string   `env:"TRANSTRINGS_CATALOG_DIRECTORY" yaml:"catalogDirectory"`
		CatalogDomain    string   `env:"TRANSTRINGS_CATALOG_DOMAIN"    yaml:"catalogDomain"`
		// Strict mode for missing keys.
		//
		// When enabled, lookups that fall back to the original string are logged
		// once per locale+key.
		StrictMissingKeys bool `env:"TRANSTRINGS_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"translator"`

	HTTP struct {
		RoutePrefix string `env:"TRANSTRINGS_ROUTE_PREFIX" yaml:"routePrefix"`
		Compression bool   `env:"TRANSTRINGS_COMPRESSION"  yaml:"compression"`
	} `yaml:"http"`

	Limiter struct {
		Enabled         bool          `env:"TRANSTRINGS_LIMITER"                  yaml:"enabled"`
		Rate            float64       `env:"TRANSTRINGS_LIMITER_RATE"             yaml:"rate"`
		Burst           int           `env:"TRANSTRINGS_LIMITER_BURST"            yaml:"burst"`
		Expiry          time.Duration `env:"TRANSTRINGS_LIMITER_EXPIRY"           yaml:"expiry"`
		CleanupInterval time.Duration `env:"TRANSTRINGS_LIMITER_CLEANUP_INTERVAL" yaml:"cleanupInterval"`
		// Clients are grouped by network; these are the prefix lengths of a network.
		IPv4Prefix int `env:"TRANSTRINGS_LIMITER_IPV4_PREFIX" yaml:"ipv4Prefix"`
		IPv6Prefix int `env:"TRANSTRINGS_LIMITER_IPV6_PREFIX" yaml:"ipv6Prefix"`
		// PassIPs are addresses or CIDRs that are never limited.
		PassIPs []string `env:"TRANSTRINGS_LIMITER_PASS_LIST" yaml:"passIPs"`
	} `yaml:"limiter"`

	Instance struct {
		StartingTime string `yaml:"-"`
	} `yaml:"-"`

	Development struct {
		InDevelopment bool `env:"TRANSTRINGS_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"TRANSTRINGS_LOG_LEVEL"   yaml:"logLevel"`
		Outputs []string `env:"TRANSTRINGS_LOG_OUTPUTS" yaml:"logOutputs"`
		Format  string   `env:"TRANSTRINGS_LOG_FORMAT"  yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from the file named by the -config flag,
// TRANSTRINGS_CONFIGFILE or ./config.yaml (falling back to ./config.yml), in
// that order of precedence, then from .env and the environment.
func (cfg *ServerConfig) LoadConfig() error {
	path, set := configFlag()

	switch {
	case set:
	case os.Getenv("TRANSTRINGS_CONFIGFILE") != "":
		path = os.Getenv("TRANSTRINGS_CONFIGFILE")
	default:
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if _, err := os.Stat("./config.yml"); err == nil {
				path = "./config.yml"
			}
		}
	}

	return cfg.Load(path)
}

// Load applies defaults, the YAML file at configFilePath, the .env file and the
// environment, in that order, and validates the result.
//
// An empty configFilePath skips the YAML step.
func (cfg *ServerConfig) Load(configFilePath string) error {
	cfg.SetDefaults()

	cfg.Build.Read()

	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if cfg.Basic.UnixSocket == "" && isContainerized() && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

// ExtractionPaths returns the directories scanned for translatable strings,
// relative to Project.BasePath.
//
// ParserViewPaths take precedence over ViewPaths; SourcePaths are always appended.
func (cfg *ServerConfig) ExtractionPaths() []string {
	paths := cfg.Project.ParserViewPaths
	if len(paths) == 0 {
		paths = cfg.Project.ViewPaths
	}

	out := make([]string, 0, len(paths)+len(cfg.Project.SourcePaths))
	out = append(out, paths...)
	out = append(out, cfg.Project.SourcePaths...)

	return out
}

// StorageDirectory returns the absolute-or-relative directory holding the CSV files.
func (cfg *ServerConfig) StorageDirectory() string {
	return filepath.Join(cfg.Project.BasePath, cfg.Storage.Directory)
}

// CatalogDirectory returns the directory holding the gettext catalogues.
func (cfg *ServerConfig) CatalogDirectory() string {
	if filepath.IsAbs(cfg.Translator.CatalogDirectory) {
		return cfg.Translator.CatalogDirectory
	}

	return filepath.Join(cfg.Project.BasePath, cfg.Translator.CatalogDirectory)
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	for _, marker := range []string{"/.dockerenv", "/.containerenv"} {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}

	return false
}
