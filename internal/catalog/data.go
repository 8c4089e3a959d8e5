package catalog

import "math"

// ValueType is the declared type of a measurement value.
type ValueType string

const (
	TypeFloat  ValueType = "float"
	TypeString ValueType = "string"
)

func (t ValueType) Valid() bool {
	return t == TypeFloat || t == TypeString
}

type Location struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}

// Sensor is a fixed remote monitoring station.
type Sensor struct {
	Key         string   `yaml:"-" json:"key"`
	Description string   `yaml:"description" json:"description"`
	Location    Location `yaml:"location" json:"location"`
	URL         string   `yaml:"url" json:"url"`
}

// Measurement is a named quantity. Name is the label as it appears at the
// start of a line in the sensor response.
type Measurement struct {
	Key    string    `yaml:"-" json:"key"`
	Name   string    `yaml:"name" json:"name"`
	Type   ValueType `yaml:"type" json:"type"`
	Unit   string    `yaml:"unit" json:"unit"`
	Medium string    `yaml:"medium" json:"medium"`
}

// BoundingBox is an inclusive latitude/longitude rectangle.
//
// A bound left at zero counts as absent, the same way the upstream service
// treats a falsy bound; a box with any absent bound does not filter.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

func NewBoundingBox(minLat, maxLat, minLng, maxLng float64) BoundingBox {
	return BoundingBox{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLng: minLng,
		MaxLng: maxLng,
	}
}

// IsComplete reports whether all four bounds are present.
func (b BoundingBox) IsComplete() bool {
	for _, v := range []float64{b.MinLat, b.MaxLat, b.MinLng, b.MaxLng} {
		if v == 0 || math.IsNaN(v) {
			return false
		}
	}
	return true
}

func (b BoundingBox) Contains(loc Location) bool {
	return loc.Lat >= b.MinLat &&
		loc.Lat <= b.MaxLat &&
		loc.Lng >= b.MinLng &&
		loc.Lng <= b.MaxLng
}
