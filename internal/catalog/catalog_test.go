package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rohmanhakim/lobo/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderedDoc = `
sensors:
  ZULU:
    description: Last alphabetically, first in file
    location: {lat: 27.5, lng: -80.4}
    url: http://example.org/zulu
  ALPHA:
    description: First alphabetically
    location: {lat: 28.1, lng: -80.6}
    url: http://example.org/alpha?node=1
measurements:
  waterTemperature:
    name: Temperature
    type: float
    unit: C
    medium: water
  airTemperature:
    name: Temperature
    type: float
    unit: C
    medium: air
  note:
    name: Note
    type: string
    unit: ""
    medium: water
`

func TestDefault_LoadsBundledCatalog(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	assert.NotEmpty(t, c.SensorKeys())
	assert.NotEmpty(t, c.MeasurementKeys())

	sensor, ok := c.Sensor("IRL-SB")
	require.True(t, ok)
	assert.Equal(t, "Indian River Lagoon - Sebastian", sensor.Description)
	assert.Equal(t, 27.839089, sensor.Location.Lat)
	assert.Equal(t, -80.470822, sensor.Location.Lng)
	assert.NotEmpty(t, sensor.URL)

	ph, ok := c.Measurement("pH")
	require.True(t, ok)
	assert.Equal(t, "pH", ph.Name)
	assert.Equal(t, catalog.TypeFloat, ph.Type)
}

func TestParse_PreservesDocumentOrder(t *testing.T) {
	c, err := catalog.Parse([]byte(orderedDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"ZULU", "ALPHA"}, c.SensorKeys())
	assert.Equal(t, []string{"waterTemperature", "airTemperature", "note"}, c.MeasurementKeys())

	measurements := c.Measurements()
	require.Len(t, measurements, 3)
	assert.Equal(t, "waterTemperature", measurements[0].Key)
	assert.Equal(t, "water", measurements[0].Medium)
	assert.Equal(t, catalog.TypeString, measurements[2].Type)
}

func TestSensorKeysInArea(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	tests := []struct {
		name     string
		box      catalog.BoundingBox
		expected []string
	}{
		{
			name:     "box tightly around one sensor",
			box:      catalog.NewBoundingBox(27.839088, 27.839090, -80.470823, -80.470821),
			expected: []string{"IRL-SB"},
		},
		{
			name:     "box on the exact coordinates is inclusive",
			box:      catalog.NewBoundingBox(27.839089, 27.839089, -80.470822, -80.470822),
			expected: []string{"IRL-SB"},
		},
		{
			name:     "box with no sensors",
			box:      catalog.NewBoundingBox(24.839088, 24.839090, -84.470823, -84.470821),
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.SensorKeysInArea(tt.box))
		})
	}
}

func TestSensorKeysInArea_IncompleteBoxReturnsAll(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	boxes := []catalog.BoundingBox{
		{},
		catalog.NewBoundingBox(27, 28, -81, 0),
		catalog.NewBoundingBox(0, 28, -81, -80),
	}
	for _, box := range boxes {
		assert.Equal(t, c.SensorKeys(), c.SensorKeysInArea(box))
	}
}

func TestLookups_MissIsNotAnError(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	sensor, ok := c.Sensor("NOT A SENSOR")
	assert.False(t, ok)
	assert.Equal(t, catalog.Sensor{}, sensor)

	measurement, ok := c.Measurement("NOT A MEASUREMENT")
	assert.False(t, ok)
	assert.Equal(t, catalog.Measurement{}, measurement)
}

func TestAccessors_ReturnCopies(t *testing.T) {
	c, err := catalog.Parse([]byte(orderedDoc))
	require.NoError(t, err)

	sensors := c.Sensors()
	sensors[0].Description = "mutated"
	measurements := c.Measurements()
	measurements[0].Name = "mutated"

	s, _ := c.Sensor("ZULU")
	assert.Equal(t, "Last alphabetically, first in file", s.Description)
	m, _ := c.Measurement("waterTemperature")
	assert.Equal(t, "Temperature", m.Name)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		expectedErr error
	}{
		{
			name:        "not yaml",
			doc:         "sensors: [unterminated",
			expectedErr: catalog.ErrCatalogParsing,
		},
		{
			name:        "empty document",
			doc:         "",
			expectedErr: catalog.ErrCatalogParsing,
		},
		{
			name:        "top level sequence",
			doc:         "- a\n- b\n",
			expectedErr: catalog.ErrCatalogParsing,
		},
		{
			name:        "sensors is a list",
			doc:         "sensors:\n  - IRL-SB\n",
			expectedErr: catalog.ErrCatalogParsing,
		},
		{
			name: "unsupported measurement type",
			doc: `measurements:
  pH:
    name: pH
    type: integer
`,
			expectedErr: catalog.ErrInvalidCatalog,
		},
		{
			name: "measurement without name",
			doc: `measurements:
  pH:
    type: float
`,
			expectedErr: catalog.ErrInvalidCatalog,
		},
		{
			name: "sensor without url",
			doc: `sensors:
  IRL-SB:
    description: Sebastian
    location: {lat: 27.8, lng: -80.4}
`,
			expectedErr: catalog.ErrInvalidCatalog,
		},
		{
			name: "sensor with relative url",
			doc: `sensors:
  IRL-SB:
    url: /latest
`,
			expectedErr: catalog.ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
		})
	}
}

func TestParse_EmptySections(t *testing.T) {
	c, err := catalog.Parse([]byte("sensors:\nmeasurements:\n"))
	require.NoError(t, err)
	assert.Empty(t, c.SensorKeys())
	assert.Empty(t, c.MeasurementKeys())
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := catalog.New(
		[]catalog.Sensor{
			{Key: "A", URL: "http://example.org/a"},
			{Key: "A", URL: "http://example.org/b"},
		},
		nil,
	)
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)

	_, err = catalog.New(nil, []catalog.Measurement{
		{Key: "pH", Name: "pH", Type: catalog.TypeFloat},
		{Key: "pH", Name: "pH", Type: catalog.TypeFloat},
	})
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "configuration.yaml")
	require.NoError(t, os.WriteFile(path, []byte(orderedDoc), 0644))

	c, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ZULU", "ALPHA"}, c.SensorKeys())

	_, err = catalog.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, catalog.ErrFileDoesNotExist)
}
