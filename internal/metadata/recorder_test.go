package metadata_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rohmanhakim/lobo/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSink struct {
	fetches   int
	errors    int
	parses    int
	artifacts int
}

func (c *countingSink) RecordFetch(string, int, time.Duration, string, string, bool) { c.fetches++ }
func (c *countingSink) RecordError(time.Time, string, string, metadata.ErrorCause, string, []metadata.Attribute) {
	c.errors++
}
func (c *countingSink) RecordParse(string, int, time.Duration) { c.parses++ }
func (c *countingSink) RecordArtifact(metadata.ArtifactKind, string, []metadata.Attribute) {
	c.artifacts++
}

func TestMultiSink_FansOut(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	sink := metadata.MultiSink{a, b}

	sink.RecordFetch("http://example.org", 200, time.Millisecond, "text/html", "abc", false)
	sink.RecordError(time.Now(), "fetcher", "ResponseFetcher.Fetch", metadata.CauseNetworkFailure, "boom", nil)
	sink.RecordParse("IRL-SB", 3, time.Microsecond)
	sink.RecordArtifact(metadata.ArtifactSnapshot, "/tmp/irl-sb.json", nil)

	for _, s := range []*countingSink{a, b} {
		assert.Equal(t, 1, s.fetches)
		assert.Equal(t, 1, s.errors)
		assert.Equal(t, 1, s.parses)
		assert.Equal(t, 1, s.artifacts)
	}
}

func TestLogSink_RecordFetch_JSON(t *testing.T) {
	var buf bytes.Buffer
	sink := metadata.NewLogSink(metadata.NewLogger("debug", "json", &buf))

	sink.RecordFetch("http://example.org/latest", 200, 25*time.Millisecond, "text/html", "deadbeef", false)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sensor endpoint fetched", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "http://example.org/latest", entry["url"])
	assert.Equal(t, "example.org", entry["host"])
	assert.Equal(t, float64(200), entry["http_status"])
	assert.Equal(t, "deadbeef", entry["content_hash"])
}

func TestLogSink_RecordFetch_CacheHitIsDebug(t *testing.T) {
	var buf bytes.Buffer
	sink := metadata.NewLogSink(metadata.NewLogger("info", "text", &buf))

	sink.RecordFetch("http://example.org/latest", 0, 0, "", "deadbeef", true)

	assert.Empty(t, buf.String(), "cache hits are logged at debug level only")
}

func TestLogSink_RecordError_IncludesAttributes(t *testing.T) {
	var buf bytes.Buffer
	sink := metadata.NewLogSink(metadata.NewLogger("info", "text", &buf))

	sink.RecordError(
		time.Now(),
		"parser",
		"Parse",
		metadata.CauseContentInvalid,
		"value is not a number",
		[]metadata.Attribute{metadata.NewAttr(metadata.AttrSensor, "IRL-SB")},
	)

	out := buf.String()
	assert.True(t, strings.Contains(out, "level=ERROR"), out)
	assert.Contains(t, out, "cause=content_invalid")
	assert.Contains(t, out, "sensor=IRL-SB")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, metadata.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, metadata.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, metadata.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, metadata.ParseLevel("nonsense"))
}

func TestPrometheusSink_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := metadata.NewPrometheusSink(reg)
	require.NoError(t, err)

	sink.RecordFetch("http://fau.loboviz.com/a?x=1", 200, 10*time.Millisecond, "text/html", "h", false)
	sink.RecordFetch("http://fau.loboviz.com/b?x=2", 200, 10*time.Millisecond, "text/html", "h", false)
	sink.RecordFetch("http://fau.loboviz.com/a?x=1", 0, 0, "", "h", true)
	sink.RecordError(time.Now(), "fetcher", "ResponseFetcher.Fetch", metadata.CauseNetworkFailure, "x", nil)
	sink.RecordParse("IRL-SB", 7, time.Microsecond)
	sink.RecordArtifact(metadata.ArtifactSnapshot, "/tmp/x.json", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.FetchesTotal().WithLabelValues("fau.loboviz.com", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.CacheHitsTotal().WithLabelValues("fau.loboviz.com")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.ErrorsTotal().WithLabelValues("fetcher", "network_failure")))
	assert.Equal(t, 7.0, testutil.ToFloat64(sink.ParsedValues().WithLabelValues("IRL-SB")))
}

func TestPrometheusSink_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metadata.NewPrometheusSink(reg)
	require.NoError(t, err)

	_, err = metadata.NewPrometheusSink(reg)
	assert.Error(t, err)
}
