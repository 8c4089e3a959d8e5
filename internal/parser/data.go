package parser

import (
	"bytes"
	"encoding/json"

	"github.com/rohmanhakim/lobo/internal/catalog"
)

// MeasurementRecord is the structured form of one sensor response.
// DateTime is nil when no timestamp line was recognized.
type MeasurementRecord struct {
	Sensor   string   `json:"sensor"`
	DateTime *string  `json:"dateTime"`
	Data     Readings `json:"data"`
}

// Reading is one typed measurement value. Number is set for float
// measurements, Text for string measurements.
type Reading struct {
	Key    string
	Type   catalog.ValueType
	Number float64
	Text   string
}

// Value returns the reading as float64 or string according to its type.
func (r Reading) Value() any {
	if r.Type == catalog.TypeFloat {
		return r.Number
	}
	return r.Text
}

// Readings keeps measurements in the order they were first matched.
type Readings []Reading

func (r Readings) Get(key string) (Reading, bool) {
	for _, reading := range r {
		if reading.Key == key {
			return reading, true
		}
	}
	return Reading{}, false
}

func (r Readings) Keys() []string {
	keys := make([]string, len(r))
	for i, reading := range r {
		keys[i] = reading.Key
	}
	return keys
}

// set replaces the value of an existing key in place or appends a new one.
func (r Readings) set(reading Reading) Readings {
	for i := range r {
		if r[i].Key == reading.Key {
			r[i] = reading
			return r
		}
	}
	return append(r, reading)
}

// MarshalJSON encodes the readings as a JSON object in match order.
func (r Readings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, reading := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(reading.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(reading.Value())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
