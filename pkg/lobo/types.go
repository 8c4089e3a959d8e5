package lobo

import (
	"github.com/rohmanhakim/lobo/internal/cache"
	"github.com/rohmanhakim/lobo/internal/catalog"
	"github.com/rohmanhakim/lobo/internal/metadata"
	"github.com/rohmanhakim/lobo/internal/parser"
	"github.com/rohmanhakim/lobo/internal/storage"
)

// Catalog and record types.
type (
	Catalog           = catalog.Catalog
	Sensor            = catalog.Sensor
	Measurement       = catalog.Measurement
	Location          = catalog.Location
	BoundingBox       = catalog.BoundingBox
	ValueType         = catalog.ValueType
	MeasurementRecord = parser.MeasurementRecord
	Reading           = parser.Reading
	Readings          = parser.Readings
)

const (
	TypeFloat  = catalog.TypeFloat
	TypeString = catalog.TypeString
)

// Observability types, for callers implementing their own MetadataSink.
type (
	MetadataSink = metadata.MetadataSink
	ErrorCause   = metadata.ErrorCause
	Attribute    = metadata.Attribute
	AttributeKey = metadata.AttributeKey
	ArtifactKind = metadata.ArtifactKind
)

const (
	CauseUnknown            = metadata.CauseUnknown
	CauseNetworkFailure     = metadata.CauseNetworkFailure
	CauseContentInvalid     = metadata.CauseContentInvalid
	CauseStorageFailure     = metadata.CauseStorageFailure
	CauseInvariantViolation = metadata.CauseInvariantViolation
)

// Snapshot storage types, for callers implementing their own SnapshotStorage.
type (
	SnapshotStorage = storage.Sink
	WriteResult     = storage.WriteResult
)

func NewWriteResult(sensor, path, contentHash string) WriteResult {
	return storage.NewWriteResult(sensor, path, contentHash)
}

// ResponseCache holds fetched response bodies keyed by URL.
type ResponseCache = cache.ResponseCache

// NewMemoryCache returns an empty in-memory response cache that can be
// shared between clients through WithCache.
func NewMemoryCache() ResponseCache {
	return cache.NewMemoryCache()
}

// NewBoundingBox builds an inclusive box. A zero bound counts as absent.
func NewBoundingBox(minLat, maxLat, minLng, maxLng float64) BoundingBox {
	return catalog.NewBoundingBox(minLat, maxLat, minLng, maxLng)
}

// DataRequest selects what GetSensorData fetches. An empty Sensor means
// every sensor in the catalog. NoCache forces a network fetch and leaves
// the cache untouched.
type DataRequest struct {
	Sensor  string
	NoCache bool
}
