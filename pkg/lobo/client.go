package lobo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rohmanhakim/lobo/internal/cache"
	"github.com/rohmanhakim/lobo/internal/catalog"
	"github.com/rohmanhakim/lobo/internal/config"
	"github.com/rohmanhakim/lobo/internal/fetcher"
	"github.com/rohmanhakim/lobo/internal/metadata"
	"github.com/rohmanhakim/lobo/internal/parser"
	"github.com/rohmanhakim/lobo/internal/storage"
	"golang.org/x/sync/errgroup"
)

/*
Client ties the catalog, the fetch cache and the text parser together.

Data Flow
- A data request resolves to one or all catalog sensors
- Each sensor URL is fetched through the response cache
- Each response is parsed against the measurement catalog, in catalog order

An all-sensors request fetches every sensor concurrently and either
returns one record per sensor, in catalog order, or the first error.
*/

type Client struct {
	cfg     config.Config
	catalog *catalog.Catalog
	fetcher fetcher.Fetcher
	parser  parser.TextParser
	storage storage.Sink
}

func New(opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	cfgBuilder := config.WithDefault()
	if o.cfg != nil {
		base := *o.cfg
		cfgBuilder = &base
	}
	for _, configure := range o.configure {
		configure(cfgBuilder)
	}
	cfg, err := cfgBuilder.Build()
	if err != nil {
		return nil, err
	}

	c := o.catalog
	if c == nil {
		loaded, err := loadCatalog(cfg)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	sink, err := buildMetadataSink(o)
	if err != nil {
		return nil, err
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}

	responseCache := o.cache
	if responseCache == nil {
		responseCache = cache.NewMemoryCache()
	}

	responseFetcher := fetcher.NewResponseFetcher(sink, responseCache)
	responseFetcher.Init(httpClient, cfg.UserAgent())
	responseFetcher.SetHashAlgo(cfg.HashAlgo())

	snapshotSink := o.storage
	if snapshotSink == nil {
		localSink := storage.NewLocalSink(sink)
		snapshotSink = &localSink
	}

	return &Client{
		cfg:     cfg,
		catalog: c,
		fetcher: &responseFetcher,
		parser:  parser.NewTextParser(sink),
		storage: snapshotSink,
	}, nil
}

// buildMetadataSink fans out to every sink the options ask for.
func buildMetadataSink(o options) (metadata.MetadataSink, error) {
	var sinks metadata.MultiSink
	if o.metadataSink != nil {
		sinks = append(sinks, o.metadataSink)
	}
	if o.logger != nil {
		sinks = append(sinks, metadata.NewLogSink(o.logger))
	}
	if o.registerer != nil {
		promSink, err := metadata.NewPrometheusSink(o.registerer)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, promSink)
	}

	switch len(sinks) {
	case 0:
		return &metadata.NoopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return sinks, nil
	}
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile() == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(cfg.CatalogFile())
}

// GetSensors lists sensor keys in catalog order. With a complete bounding
// box only sensors inside it are listed; extra boxes are ignored.
func (c *Client) GetSensors(box ...BoundingBox) []string {
	if len(box) == 0 {
		return c.catalog.SensorKeys()
	}
	return c.catalog.SensorKeysInArea(box[0])
}

func (c *Client) GetSensor(key string) (Sensor, bool) {
	return c.catalog.Sensor(key)
}

func (c *Client) GetMeasurements() []string {
	return c.catalog.MeasurementKeys()
}

func (c *Client) GetMeasurement(key string) (Measurement, bool) {
	return c.catalog.Measurement(key)
}

// GetSensorData returns one record for a named sensor, or one record per
// catalog sensor when req.Sensor is empty.
func (c *Client) GetSensorData(ctx context.Context, req DataRequest) ([]MeasurementRecord, error) {
	if req.Sensor != "" {
		record, err := c.GetSensorRecord(ctx, req.Sensor, req.NoCache)
		if err != nil {
			return nil, err
		}
		return []MeasurementRecord{record}, nil
	}

	sensors := c.catalog.Sensors()
	records := make([]MeasurementRecord, len(sensors))

	g, gctx := errgroup.WithContext(ctx)
	if c.cfg.Concurrency() > 0 {
		g.SetLimit(c.cfg.Concurrency())
	}
	for i, sensor := range sensors {
		g.Go(func() error {
			record, err := c.fetchRecord(gctx, sensor, req.NoCache)
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) GetSensorRecord(ctx context.Context, key string, noCache bool) (MeasurementRecord, error) {
	sensor, ok := c.catalog.Sensor(key)
	if !ok {
		return MeasurementRecord{}, fmt.Errorf("%w: %s", ErrSensorNotFound, key)
	}
	return c.fetchRecord(ctx, sensor, noCache)
}

// GetRawResponse returns the response text for one sensor without parsing.
func (c *Client) GetRawResponse(ctx context.Context, key string, noCache bool) (string, error) {
	sensor, ok := c.catalog.Sensor(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSensorNotFound, key)
	}
	result, err := c.fetcher.Fetch(ctx, sensor.URL, !noCache)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

// WriteSnapshots writes each record as JSON under outputDir and returns the
// written paths in record order. It stops at the first failed write.
func (c *Client) WriteSnapshots(outputDir string, records []MeasurementRecord) ([]string, error) {
	paths := make([]string, 0, len(records))
	for _, record := range records {
		result, err := c.storage.Write(outputDir, record, c.cfg.HashAlgo())
		if err != nil {
			return paths, err
		}
		paths = append(paths, result.Path())
	}
	return paths, nil
}

func (c *Client) fetchRecord(ctx context.Context, sensor Sensor, noCache bool) (MeasurementRecord, error) {
	result, fetchErr := c.fetcher.Fetch(ctx, sensor.URL, !noCache)
	if fetchErr != nil {
		return MeasurementRecord{}, fetchErr
	}

	record, parseErr := c.parser.Parse(sensor.Key, result.Text(), c.catalog.Measurements())
	if parseErr != nil {
		return MeasurementRecord{}, parseErr
	}
	return record, nil
}
