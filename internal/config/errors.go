package config

import "errors"

var (
	ErrFileDoesNotExist  = errors.New("config file does not exist")
	ErrReadConfigFail    = errors.New("failed to read config file")
	ErrConfigParsingFail = errors.New("failed to parse config file")
	// ErrInvalidConfig covers values that parse but cannot be used, such as
	// a negative concurrency or an unknown log format.
	ErrInvalidConfig = errors.New("invalid config")
)
