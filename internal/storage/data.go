package storage

// Persistence

type WriteResult struct {
	sensor      string
	path        string
	contentHash string
}

func NewWriteResult(
	sensor string,
	path string,
	contentHash string,
) WriteResult {
	return WriteResult{
		sensor:      sensor,
		path:        path,
		contentHash: contentHash,
	}
}

func (w *WriteResult) Sensor() string {
	return w.sensor
}

func (w *WriteResult) Path() string {
	return w.path
}

func (w *WriteResult) ContentHash() string {
	return w.contentHash
}
