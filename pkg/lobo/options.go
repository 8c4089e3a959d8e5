package lobo

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rohmanhakim/lobo/internal/config"
	"github.com/rohmanhakim/lobo/pkg/hashutil"
)

type options struct {
	cfg          *config.Config
	configure    []func(*config.Config)
	catalog      *Catalog
	metadataSink MetadataSink
	logger       *slog.Logger
	registerer   prometheus.Registerer
	httpClient   *http.Client
	cache        ResponseCache
	storage      SnapshotStorage
}

type Option func(*options)

// WithConfig replaces the default configuration. Only callers inside this
// module can build a config.Config; others use the single-setting options.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = &cfg
	}
}

// WithCatalogFile loads the catalog from a YAML file instead of the bundled
// one. WithCatalog takes precedence.
func WithCatalogFile(path string) Option {
	return withSetting(func(c *config.Config) { c.WithCatalogFile(path) })
}

// WithTimeout bounds every sensor request. Zero means no client timeout.
// Ignored when WithHTTPClient is given.
func WithTimeout(timeout time.Duration) Option {
	return withSetting(func(c *config.Config) { c.WithTimeout(timeout) })
}

func WithUserAgent(userAgent string) Option {
	return withSetting(func(c *config.Config) { c.WithUserAgent(userAgent) })
}

// WithConcurrency caps the sensors fetched at once by an all-sensors
// request. Zero means one goroutine per sensor.
func WithConcurrency(concurrency int) Option {
	return withSetting(func(c *config.Config) { c.WithConcurrency(concurrency) })
}

// WithHashAlgo selects the digest for response and snapshot hashes.
func WithHashAlgo(algo hashutil.HashAlgo) Option {
	return withSetting(func(c *config.Config) { c.WithHashAlgo(algo) })
}

// withSetting applies on top of WithConfig or the defaults, whatever the
// option order.
func withSetting(fn func(*config.Config)) Option {
	return func(o *options) {
		o.configure = append(o.configure, fn)
	}
}

// WithCatalog uses c instead of loading one from the configuration.
func WithCatalog(c *Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

func WithMetadataSink(sink MetadataSink) Option {
	return func(o *options) {
		o.metadataSink = sink
	}
}

// WithLogger records fetch, parse, error and artifact events on logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPrometheusRegisterer registers the client's lobo_* collectors on reg.
// New fails if they are already registered there.
func WithPrometheusRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithHTTPClient replaces the client built from the configured timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

// WithCache shares a response cache between clients.
func WithCache(c ResponseCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

func WithStorage(s SnapshotStorage) Option {
	return func(o *options) {
		o.storage = s
	}
}
