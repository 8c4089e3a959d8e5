package lobo

import (
	"errors"

	"github.com/rohmanhakim/lobo/internal/catalog"
	"github.com/rohmanhakim/lobo/internal/config"
)

// ErrSensorNotFound is returned when a data request names a sensor that is
// not in the catalog.
var ErrSensorNotFound = errors.New("sensor not found")

// Errors returned by New and the catalog loaders.
var (
	ErrInvalidConfig           = config.ErrInvalidConfig
	ErrCatalogFileDoesNotExist = catalog.ErrFileDoesNotExist
	ErrCatalogParsing          = catalog.ErrCatalogParsing
	ErrInvalidCatalog          = catalog.ErrInvalidCatalog
)
