package catalog

import "errors"

var (
	ErrFileDoesNotExist = errors.New("catalog file does not exist")
	ErrReadCatalogFail  = errors.New("failed to read catalog file")
	ErrCatalogParsing   = errors.New("failed to parse catalog")
	ErrInvalidCatalog   = errors.New("invalid catalog")
)
