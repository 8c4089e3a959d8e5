package storage_test

import (
	"time"

	"github.com/rohmanhakim/lobo/internal/metadata"
	"github.com/stretchr/testify/mock"
)

// metadataSinkMock is a mock for metadata.MetadataSink
type metadataSinkMock struct {
	mock.Mock
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.Called(packageName, action, cause, attrs)
}

func (m *metadataSinkMock) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	contentHash string,
	cacheHit bool,
) {
	m.Called(fetchUrl, httpStatus, cacheHit)
}

func (m *metadataSinkMock) RecordParse(sensor string, measurementCount int, duration time.Duration) {
	m.Called(sensor, measurementCount)
}

func (m *metadataSinkMock) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	m.Called(kind, path, attrs)
}

func attrValue(attrs []metadata.Attribute, key metadata.AttributeKey) string {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}
