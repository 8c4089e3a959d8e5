package storage

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"
	"github.com/rohmanhakim/lobo/internal/metadata"
	"github.com/rohmanhakim/lobo/internal/parser"
	"github.com/rohmanhakim/lobo/pkg/failure"
	"github.com/rohmanhakim/lobo/pkg/fileutil"
	"github.com/rohmanhakim/lobo/pkg/hashutil"
)

/*
Responsibilities
- Persist one JSON snapshot per measurement record
- Ensure deterministic filenames

Output Characteristics
- One file per sensor: <outputDir>/<slug(sensor)>.json
- Idempotent writes
- Overwrite-safe reruns; a reader never sees a half-written file
*/

type Sink interface {
	Write(
		outputDir string,
		record parser.MeasurementRecord,
		hashAlgo hashutil.HashAlgo,
	) (WriteResult, failure.ClassifiedError)
}

type LocalSink struct {
	metadataSink metadata.MetadataSink
}

func NewLocalSink(
	metadataSink metadata.MetadataSink,
) LocalSink {
	return LocalSink{
		metadataSink: metadataSink,
	}
}

func (s *LocalSink) Write(
	outputDir string,
	record parser.MeasurementRecord,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, failure.ClassifiedError) {
	writeResult, err := write(outputDir, record, hashAlgo)
	if err != nil {
		var storageError *StorageError
		errors.As(err, &storageError)
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			"LocalSink.Write",
			mapStorageErrorToMetadataCause(storageError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrSensor, record.Sensor),
				metadata.NewAttr(metadata.AttrWritePath, storageError.Path),
			},
		)
		return WriteResult{}, storageError
	}
	s.metadataSink.RecordArtifact(
		metadata.ArtifactSnapshot,
		writeResult.Path(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrSensor, writeResult.Sensor()),
			metadata.NewAttr(metadata.AttrWritePath, writeResult.Path()),
			metadata.NewAttr(metadata.AttrContentHash, writeResult.ContentHash()),
		},
	)
	return writeResult, nil
}

// SnapshotFilename is the file a record for sensorKey is written to.
// It is empty when the key has no characters usable in a filename.
func SnapshotFilename(sensorKey string) string {
	name := slug.Make(sensorKey)
	if name == "" {
		return ""
	}
	return name + ".json"
}

func write(
	outputDir string,
	record parser.MeasurementRecord,
	hashAlgo hashutil.HashAlgo,
) (WriteResult, failure.ClassifiedError) {
	filename := SnapshotFilename(record.Sensor)
	if filename == "" {
		return WriteResult{}, &StorageError{
			Message:   "sensor key " + record.Sensor + " does not yield a filename",
			Retryable: false,
			Cause:     ErrCauseInvalidFilename,
			Path:      outputDir,
		}
	}

	content, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseEncodingFailed,
			Path:      outputDir,
		}
	}
	content = append(content, '\n')

	contentHash, err := hashutil.HashBytes(content, hashAlgo)
	if err != nil {
		return WriteResult{}, &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseHashComputationFailed,
			Path:      outputDir,
		}
	}

	// Prepare output directory
	if err := fileutil.EnsureDir(outputDir); err != nil {
		return WriteResult{}, fromFileError(err, outputDir)
	}

	fullPath := filepath.Join(outputDir, filename)
	if err := fileutil.WriteFileAtomic(fullPath, content); err != nil {
		return WriteResult{}, fromFileError(err, fullPath)
	}

	return NewWriteResult(record.Sensor, fullPath, contentHash), nil
}

func fromFileError(err failure.ClassifiedError, path string) *StorageError {
	var fileErr *fileutil.FileError
	if !errors.As(err, &fileErr) {
		return &StorageError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseWriteFailure,
			Path:      path,
		}
	}

	cause := ErrCauseWriteFailure
	switch fileErr.Cause {
	case fileutil.ErrCausePathError:
		cause = ErrCausePathError
	case fileutil.ErrCauseDiskFull:
		cause = ErrCauseDiskFull
	}
	return &StorageError{
		Message:   fileErr.Message,
		Retryable: fileErr.Retryable,
		Cause:     cause,
		Path:      fileErr.Path,
	}
}
