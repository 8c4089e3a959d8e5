package metadata

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rohmanhakim/lobo/pkg/urlutil"
)

// PrometheusSink turns metadata events into counters and histograms.
// Labels are kept low-cardinality: hosts rather than full URLs.
type PrometheusSink struct {
	fetchesTotal   *prometheus.CounterVec
	cacheHitsTotal *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	parseDuration  prometheus.Histogram
	parsedValues   *prometheus.GaugeVec
	errorsTotal    *prometheus.CounterVec
	artifactsTotal *prometheus.CounterVec
}

// NewPrometheusSink creates the collectors and registers them on reg.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	s := &PrometheusSink{
		fetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lobo",
			Name:      "fetches_total",
			Help:      "Network fetches of sensor endpoints by host and HTTP status code.",
		}, []string{"host", "code"}),
		cacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lobo",
			Name:      "cache_hits_total",
			Help:      "Fetches answered from the response cache, by host.",
		}, []string{"host"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lobo",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of network fetches of sensor endpoints.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lobo",
			Name:      "parse_duration_seconds",
			Help:      "Duration of parsing one sensor response.",
			Buckets:   []float64{.00001, .0001, .001, .01, .1},
		}),
		parsedValues: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lobo",
			Name:      "parsed_measurements",
			Help:      "Number of measurements found in the last parse of a sensor response.",
		}, []string{"sensor"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lobo",
			Name:      "errors_total",
			Help:      "Errors by package and cause.",
		}, []string{"package", "cause"}),
		artifactsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lobo",
			Name:      "artifacts_total",
			Help:      "Artifacts written by kind.",
		}, []string{"kind"}),
	}

	collectors := []prometheus.Collector{
		s.fetchesTotal,
		s.cacheHitsTotal,
		s.fetchDuration,
		s.parseDuration,
		s.parsedValues,
		s.errorsTotal,
		s.artifactsTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *PrometheusSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	s.errorsTotal.WithLabelValues(packageName, cause.String()).Inc()
}

func (s *PrometheusSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	contentHash string,
	cacheHit bool,
) {
	host := urlutil.Host(fetchUrl)
	if cacheHit {
		s.cacheHitsTotal.WithLabelValues(host).Inc()
		return
	}
	s.fetchesTotal.WithLabelValues(host, strconv.Itoa(httpStatus)).Inc()
	s.fetchDuration.WithLabelValues(host).Observe(duration.Seconds())
}

func (s *PrometheusSink) RecordParse(sensor string, measurementCount int, duration time.Duration) {
	s.parseDuration.Observe(duration.Seconds())
	s.parsedValues.WithLabelValues(sensor).Set(float64(measurementCount))
}

func (s *PrometheusSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	s.artifactsTotal.WithLabelValues(string(kind)).Inc()
}

func (s *PrometheusSink) FetchesTotal() *prometheus.CounterVec   { return s.fetchesTotal }
func (s *PrometheusSink) CacheHitsTotal() *prometheus.CounterVec { return s.cacheHitsTotal }
func (s *PrometheusSink) ErrorsTotal() *prometheus.CounterVec    { return s.errorsTotal }
func (s *PrometheusSink) ParsedValues() *prometheus.GaugeVec     { return s.parsedValues }
