package metadata

import (
	"time"
)

/*
Metadata Collected
- Fetch timestamps, durations and HTTP status codes
- Cache hits
- Content hashes of fetched responses and written snapshots
- Parse durations and measurement counts

Metadata is write-only.
No component may read metadata to influence fetch, cache or parse decisions.
*/

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	// RecordFetch is called once per Fetch. A cache hit carries a zero
	// status and duration of the lookup.
	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		contentHash string,
		cacheHit bool,
	)

	RecordParse(
		sensor string,
		measurementCount int,
		duration time.Duration,
	)

	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// Callers (or tests) can decide whether to inject a real sink or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	contentHash string,
	cacheHit bool,
) {
}

func (n *NoopSink) RecordParse(sensor string, measurementCount int, duration time.Duration) {}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

// MultiSink fans every event out to each of its sinks, in order.
type MultiSink []MetadataSink

func (m MultiSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	for _, s := range m {
		s.RecordError(observedAt, packageName, action, cause, details, attrs)
	}
}

func (m MultiSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	contentHash string,
	cacheHit bool,
) {
	for _, s := range m {
		s.RecordFetch(fetchUrl, httpStatus, duration, contentType, contentHash, cacheHit)
	}
}

func (m MultiSink) RecordParse(sensor string, measurementCount int, duration time.Duration) {
	for _, s := range m {
		s.RecordParse(sensor, measurementCount, duration)
	}
}

func (m MultiSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	for _, s := range m {
		s.RecordArtifact(kind, path, attrs)
	}
}
