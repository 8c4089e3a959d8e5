package lobo

import "github.com/rohmanhakim/lobo/internal/catalog"

// NewCatalog builds a catalog from sensors and measurements in the given
// order. Keys must be unique and every sensor needs an http(s) URL.
func NewCatalog(sensors []Sensor, measurements []Measurement) (*Catalog, error) {
	return catalog.New(sensors, measurements)
}

// LoadCatalog reads a YAML catalog with "sensors" and "measurements"
// mappings from path.
func LoadCatalog(path string) (*Catalog, error) {
	return catalog.LoadFile(path)
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(content []byte) (*Catalog, error) {
	return catalog.Parse(content)
}

// DefaultCatalog returns the catalog bundled with the module.
func DefaultCatalog() (*Catalog, error) {
	return catalog.Default()
}
