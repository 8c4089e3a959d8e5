package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rohmanhakim/lobo/internal/build"
	"github.com/rohmanhakim/lobo/pkg/hashutil"
)

type Config struct {
	//===============
	//  Catalog
	//===============
	// Path to a catalog YAML document. Empty means the bundled catalog.
	catalogFile string

	//===============
	// Fetch
	//===============
	// User agent that will be used in the request header. In raw string
	userAgent string
	// Maximum time of a single fetch request. Zero means no client-side
	// timeout; the caller's context still applies.
	timeout time.Duration
	// Maximum number of sensors fetched at the same time during an
	// all-sensors request. Zero means unbounded.
	concurrency int

	//===============
	// Observability
	//===============
	// slog level name: debug, info, warn or error
	logLevel string
	// slog handler: text or json
	logFormat string
	// Prometheus textfile written after a run. Empty disables it.
	metricsFile string
	// Digest used for response and snapshot content hashes
	hashAlgo hashutil.HashAlgo

	//===============
	// Output
	//===============
	// Directory for JSON snapshots. Empty disables snapshot writing.
	outputDir string
}

type configDTO struct {
	CatalogFile string        `json:"catalogFile,omitempty"`
	UserAgent   string        `json:"userAgent,omitempty"`
	Timeout     time.Duration `json:"timeout,omitempty"`
	Concurrency int           `json:"concurrency,omitempty"`
	LogLevel    string        `json:"logLevel,omitempty"`
	LogFormat   string        `json:"logFormat,omitempty"`
	MetricsFile string        `json:"metricsFile,omitempty"`
	HashAlgo    string        `json:"hashAlgo,omitempty"`
	OutputDir   string        `json:"outputDir,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	builder := WithDefault()

	// Only override if non-zero value is provided
	if dto.CatalogFile != "" {
		builder = builder.WithCatalogFile(dto.CatalogFile)
	}
	if dto.UserAgent != "" {
		builder = builder.WithUserAgent(dto.UserAgent)
	}
	if dto.Timeout != 0 {
		builder = builder.WithTimeout(dto.Timeout)
	}
	if dto.Concurrency != 0 {
		builder = builder.WithConcurrency(dto.Concurrency)
	}
	if dto.LogLevel != "" {
		builder = builder.WithLogLevel(dto.LogLevel)
	}
	if dto.LogFormat != "" {
		builder = builder.WithLogFormat(dto.LogFormat)
	}
	if dto.MetricsFile != "" {
		builder = builder.WithMetricsFile(dto.MetricsFile)
	}
	if dto.HashAlgo != "" {
		algo, err := hashutil.ParseHashAlgo(dto.HashAlgo)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
		}
		builder = builder.WithHashAlgo(algo)
	}
	if dto.OutputDir != "" {
		builder = builder.WithOutputDir(dto.OutputDir)
	}

	return builder.Build()
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// DefaultUserAgent identifies the client and its build.
func DefaultUserAgent() string {
	return build.UserAgent()
}

// WithDefault creates a new Config with default values for all fields.
func WithDefault() *Config {
	defaultConfig := Config{
		catalogFile: "",
		userAgent:   DefaultUserAgent(),
		timeout:     0,
		concurrency: 0,
		logLevel:    "info",
		logFormat:   "text",
		metricsFile: "",
		hashAlgo:    hashutil.HashAlgoBLAKE3,
		outputDir:   "",
	}
	return &defaultConfig
}

func (c *Config) WithCatalogFile(path string) *Config {
	c.catalogFile = path
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) WithMetricsFile(path string) *Config {
	c.metricsFile = path
	return c
}

func (c *Config) WithHashAlgo(algo hashutil.HashAlgo) *Config {
	c.hashAlgo = algo
	return c
}

func (c *Config) WithOutputDir(outputDir string) *Config {
	c.outputDir = outputDir
	return c
}

func (c *Config) Build() (Config, error) {
	if c.timeout < 0 {
		return Config{}, fmt.Errorf("%w: timeout cannot be negative", ErrInvalidConfig)
	}
	if c.concurrency < 0 {
		return Config{}, fmt.Errorf("%w: concurrency cannot be negative", ErrInvalidConfig)
	}
	switch c.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.logLevel)
	}
	switch c.logFormat {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.logFormat)
	}
	if c.hashAlgo != hashutil.HashAlgoSHA256 && c.hashAlgo != hashutil.HashAlgoBLAKE3 {
		return Config{}, fmt.Errorf("%w: unsupported hash algorithm %q", ErrInvalidConfig, c.hashAlgo)
	}

	return *c, nil
}

func (c Config) CatalogFile() string {
	return c.catalogFile
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) Concurrency() int {
	return c.concurrency
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func (c Config) LogFormat() string {
	return c.logFormat
}

func (c Config) MetricsFile() string {
	return c.metricsFile
}

func (c Config) HashAlgo() hashutil.HashAlgo {
	return c.hashAlgo
}

func (c Config) OutputDir() string {
	return c.outputDir
}
