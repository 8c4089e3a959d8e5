package lobo_test

import (
	"testing"

	"github.com/rohmanhakim/lobo/internal/parser"
	"github.com/rohmanhakim/lobo/internal/storage"
	"github.com/rohmanhakim/lobo/pkg/failure"
	"github.com/rohmanhakim/lobo/pkg/hashutil"
	"github.com/stretchr/testify/mock"
)

var errWriteForTest = &storage.StorageError{
	Message:   "disk unavailable",
	Retryable: false,
	Cause:     storage.ErrCauseWriteFailure,
	Path:      "/out",
}

type storageMock struct {
	mock.Mock
}

func (s *storageMock) Write(
	outputDir string,
	record parser.MeasurementRecord,
	hashAlgo hashutil.HashAlgo,
) (storage.WriteResult, failure.ClassifiedError) {
	args := s.Called(outputDir, record, hashAlgo)
	res := args.Get(0).(storage.WriteResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return res, err
}

// expectWrite stubs one Write for the record of sensor.
func (s *storageMock) expectWrite(sensor string, path string, err failure.ClassifiedError) {
	result := storage.WriteResult{}
	if err == nil {
		result = storage.NewWriteResult(sensor, path, "hash")
	}
	matchSensor := mock.MatchedBy(func(r parser.MeasurementRecord) bool { return r.Sensor == sensor })
	if err == nil {
		s.On("Write", mock.Anything, matchSensor, mock.Anything).Return(result, nil).Once()
		return
	}
	s.On("Write", mock.Anything, matchSensor, mock.Anything).Return(result, err).Once()
}

func newStorageMockForTest(t *testing.T) *storageMock {
	t.Helper()
	m := new(storageMock)
	return m
}
