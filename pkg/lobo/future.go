package lobo

import "context"

// Callback receives the outcome of an asynchronous request. When err is
// not nil, result is the zero value.
type Callback[T any] func(err error, result T)

// Future is the eventual result of an asynchronous request.
type Future[T any] struct {
	done   chan struct{}
	result T
	err    error
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available or ctx ends. Giving up on ctx
// does not cancel the request itself.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// GetSensorDataAsync runs GetSensorData in the background. The result is
// always a slice, with one element when req names a sensor; use
// GetSensorRecordAsync for a single record. cb, when not nil, is called
// with the outcome after the future resolves.
func (c *Client) GetSensorDataAsync(ctx context.Context, req DataRequest, cb Callback[[]MeasurementRecord]) *Future[[]MeasurementRecord] {
	return runAsync(func() ([]MeasurementRecord, error) {
		return c.GetSensorData(ctx, req)
	}, cb)
}

// GetSensorRecordAsync runs GetSensorRecord in the background.
func (c *Client) GetSensorRecordAsync(ctx context.Context, key string, noCache bool, cb Callback[MeasurementRecord]) *Future[MeasurementRecord] {
	return runAsync(func() (MeasurementRecord, error) {
		return c.GetSensorRecord(ctx, key, noCache)
	}, cb)
}

func runAsync[T any](fn func() (T, error), cb Callback[T]) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}

	go func() {
		result, err := fn()
		f.result, f.err = result, err
		close(f.done)

		if cb != nil {
			cb(err, result)
		}
	}()

	return f
}
