package catalog

import (
	"fmt"
	"strings"

	"github.com/rohmanhakim/lobo/pkg/urlutil"
)

// Catalog is the read-only sensor and measurement table. Iteration order is
// the order of the source document and is part of the contract: the parser
// resolves ambiguous measurement names by it.
type Catalog struct {
	sensors          []Sensor
	sensorIndex      map[string]int
	measurements     []Measurement
	measurementIndex map[string]int
}

// New validates and indexes the given descriptors, keeping their order.
func New(sensors []Sensor, measurements []Measurement) (*Catalog, error) {
	c := &Catalog{
		sensors:          make([]Sensor, 0, len(sensors)),
		sensorIndex:      make(map[string]int, len(sensors)),
		measurements:     make([]Measurement, 0, len(measurements)),
		measurementIndex: make(map[string]int, len(measurements)),
	}

	for _, s := range sensors {
		if err := validateSensor(s); err != nil {
			return nil, err
		}
		if _, dup := c.sensorIndex[s.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate sensor %q", ErrInvalidCatalog, s.Key)
		}
		c.sensorIndex[s.Key] = len(c.sensors)
		c.sensors = append(c.sensors, s)
	}

	for _, m := range measurements {
		if err := validateMeasurement(m); err != nil {
			return nil, err
		}
		if _, dup := c.measurementIndex[m.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate measurement %q", ErrInvalidCatalog, m.Key)
		}
		c.measurementIndex[m.Key] = len(c.measurements)
		c.measurements = append(c.measurements, m)
	}

	return c, nil
}

func validateSensor(s Sensor) error {
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("%w: sensor key cannot be empty", ErrInvalidCatalog)
	}
	if _, err := urlutil.ParseSourceURL(s.URL); err != nil {
		return fmt.Errorf("%w: sensor %q: %v", ErrInvalidCatalog, s.Key, err)
	}
	return nil
}

func validateMeasurement(m Measurement) error {
	if strings.TrimSpace(m.Key) == "" {
		return fmt.Errorf("%w: measurement key cannot be empty", ErrInvalidCatalog)
	}
	if m.Name == "" {
		return fmt.Errorf("%w: measurement %q has no name", ErrInvalidCatalog, m.Key)
	}
	if !m.Type.Valid() {
		return fmt.Errorf("%w: measurement %q has unsupported type %q", ErrInvalidCatalog, m.Key, m.Type)
	}
	return nil
}

// SensorKeys lists every sensor key in catalog order.
func (c *Catalog) SensorKeys() []string {
	keys := make([]string, len(c.sensors))
	for i, s := range c.sensors {
		keys[i] = s.Key
	}
	return keys
}

// SensorKeysInArea lists the sensors located inside box, inclusive. An
// incomplete box returns every sensor.
func (c *Catalog) SensorKeysInArea(box BoundingBox) []string {
	if !box.IsComplete() {
		return c.SensorKeys()
	}

	keys := []string{}
	for _, s := range c.sensors {
		if box.Contains(s.Location) {
			keys = append(keys, s.Key)
		}
	}
	return keys
}

// Sensor looks up one sensor. A miss is not an error.
func (c *Catalog) Sensor(key string) (Sensor, bool) {
	i, ok := c.sensorIndex[key]
	if !ok {
		return Sensor{}, false
	}
	return c.sensors[i], true
}

func (c *Catalog) Sensors() []Sensor {
	out := make([]Sensor, len(c.sensors))
	copy(out, c.sensors)
	return out
}

func (c *Catalog) MeasurementKeys() []string {
	keys := make([]string, len(c.measurements))
	for i, m := range c.measurements {
		keys[i] = m.Key
	}
	return keys
}

// Measurement looks up one measurement. A miss is not an error.
func (c *Catalog) Measurement(key string) (Measurement, bool) {
	i, ok := c.measurementIndex[key]
	if !ok {
		return Measurement{}, false
	}
	return c.measurements[i], true
}

// Measurements returns the measurement table in catalog order.
func (c *Catalog) Measurements() []Measurement {
	out := make([]Measurement, len(c.measurements))
	copy(out, c.measurements)
	return out
}
