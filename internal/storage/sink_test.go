package storage_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rohmanhakim/lobo/internal/catalog"
	"github.com/rohmanhakim/lobo/internal/metadata"
	"github.com/rohmanhakim/lobo/internal/parser"
	"github.com/rohmanhakim/lobo/internal/storage"
	"github.com/rohmanhakim/lobo/pkg/failure"
	"github.com/rohmanhakim/lobo/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testRecord(sensor string) parser.MeasurementRecord {
	dateTime := "2016-07-22 09:00:00 EST"
	return parser.MeasurementRecord{
		Sensor:   sensor,
		DateTime: &dateTime,
		Data: parser.Readings{
			{Key: "pH", Type: catalog.TypeFloat, Number: 7.947},
			{Key: "tide", Type: catalog.TypeString, Text: "rising"},
		},
	}
}

func TestSnapshotFilename(t *testing.T) {
	tests := []struct {
		sensor   string
		expected string
	}{
		{sensor: "IRL-SB", expected: "irl-sb.json"},
		{sensor: "SLE ME", expected: "sle-me.json"},
		{sensor: "a/b", expected: "a-b.json"},
		{sensor: "", expected: ""},
		{sensor: "///", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.sensor, func(t *testing.T) {
			assert.Equal(t, tt.expected, storage.SnapshotFilename(tt.sensor))
		})
	}
}

func TestLocalSink_Write_Success(t *testing.T) {
	tests := []struct {
		name     string
		hashAlgo hashutil.HashAlgo
	}{
		{name: "successful write with SHA256", hashAlgo: hashutil.HashAlgoSHA256},
		{name: "successful write with BLAKE3", hashAlgo: hashutil.HashAlgoBLAKE3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outputDir := filepath.Join(t.TempDir(), "snapshots")
			expectedPath := filepath.Join(outputDir, "irl-sb.json")

			sinkMock := &metadataSinkMock{}
			sinkMock.On("RecordArtifact", metadata.ArtifactSnapshot, expectedPath, mock.Anything).Return()
			sink := storage.NewLocalSink(sinkMock)

			result, err := sink.Write(outputDir, testRecord("IRL-SB"), tt.hashAlgo)
			require.Nil(t, err)

			assert.Equal(t, "IRL-SB", result.Sensor())
			assert.Equal(t, expectedPath, result.Path())

			content, readErr := os.ReadFile(expectedPath)
			require.NoError(t, readErr)
			expectedHash, hashErr := hashutil.HashBytes(content, tt.hashAlgo)
			require.NoError(t, hashErr)
			assert.Equal(t, expectedHash, result.ContentHash())

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(content, &decoded))
			assert.Equal(t, "IRL-SB", decoded["sensor"])
			assert.Equal(t, "2016-07-22 09:00:00 EST", decoded["dateTime"])
			assert.Equal(t, map[string]any{"pH": 7.947, "tide": "rising"}, decoded["data"])

			sinkMock.AssertExpectations(t)
			attrs := sinkMock.Calls[0].Arguments.Get(2).([]metadata.Attribute)
			assert.Equal(t, "IRL-SB", attrValue(attrs, metadata.AttrSensor))
			assert.Equal(t, expectedHash, attrValue(attrs, metadata.AttrContentHash))
		})
	}
}

func TestLocalSink_Write_IsIdempotent(t *testing.T) {
	outputDir := t.TempDir()
	sinkMock := &metadataSinkMock{}
	sinkMock.On("RecordArtifact", mock.Anything, mock.Anything, mock.Anything).Return()
	sink := storage.NewLocalSink(sinkMock)

	first, err := sink.Write(outputDir, testRecord("IRL-SB"), hashutil.HashAlgoBLAKE3)
	require.Nil(t, err)
	second, err := sink.Write(outputDir, testRecord("IRL-SB"), hashutil.HashAlgoBLAKE3)
	require.Nil(t, err)

	assert.Equal(t, first.Path(), second.Path())
	assert.Equal(t, first.ContentHash(), second.ContentHash())

	entries, readErr := os.ReadDir(outputDir)
	require.NoError(t, readErr)
	assert.Len(t, entries, 1, "rerun must overwrite, not add files")
}

func TestLocalSink_Write_OverwritesWithNewContent(t *testing.T) {
	outputDir := t.TempDir()
	sinkMock := &metadataSinkMock{}
	sinkMock.On("RecordArtifact", mock.Anything, mock.Anything, mock.Anything).Return()
	sink := storage.NewLocalSink(sinkMock)

	first, err := sink.Write(outputDir, testRecord("IRL-SB"), hashutil.HashAlgoSHA256)
	require.Nil(t, err)

	changed := testRecord("IRL-SB")
	changed.Data = changed.Data[:1]
	second, err := sink.Write(outputDir, changed, hashutil.HashAlgoSHA256)
	require.Nil(t, err)

	assert.NotEqual(t, first.ContentHash(), second.ContentHash())
	content, readErr := os.ReadFile(second.Path())
	require.NoError(t, readErr)
	assert.NotContains(t, string(content), "rising")
}

func TestLocalSink_Write_Failures(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	tests := []struct {
		name          string
		outputDir     string
		sensor        string
		hashAlgo      hashutil.HashAlgo
		expectedCause storage.StorageErrorCause
		metadataCause metadata.ErrorCause
	}{
		{
			name:          "output dir is a file",
			outputDir:     blocker,
			sensor:        "IRL-SB",
			hashAlgo:      hashutil.HashAlgoBLAKE3,
			expectedCause: storage.ErrCausePathError,
			metadataCause: metadata.CauseStorageFailure,
		},
		{
			name:          "sensor key without filename characters",
			outputDir:     t.TempDir(),
			sensor:        "///",
			hashAlgo:      hashutil.HashAlgoBLAKE3,
			expectedCause: storage.ErrCauseInvalidFilename,
			metadataCause: metadata.CauseInvariantViolation,
		},
		{
			name:          "unsupported hash algorithm",
			outputDir:     t.TempDir(),
			sensor:        "IRL-SB",
			hashAlgo:      hashutil.HashAlgo("md5"),
			expectedCause: storage.ErrCauseHashComputationFailed,
			metadataCause: metadata.CauseInvariantViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sinkMock := &metadataSinkMock{}
			sinkMock.On("RecordError", "storage", "LocalSink.Write", tt.metadataCause, mock.Anything).Return()
			sink := storage.NewLocalSink(sinkMock)

			_, err := sink.Write(tt.outputDir, testRecord(tt.sensor), tt.hashAlgo)

			require.NotNil(t, err)
			storageErr, ok := err.(*storage.StorageError)
			require.True(t, ok, "expected *storage.StorageError, got %T", err)
			assert.Equal(t, tt.expectedCause, storageErr.Cause)
			assert.Equal(t, failure.SeverityFatal, err.Severity())

			sinkMock.AssertExpectations(t)
			sinkMock.AssertNotCalled(t, "RecordArtifact", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
