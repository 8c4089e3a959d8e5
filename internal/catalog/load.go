package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed configuration.yaml
var defaultConfiguration []byte

// Default parses the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultConfiguration)
}

// LoadFile reads and parses a catalog document from path.
func LoadFile(path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReadCatalogFail, err.Error())
	}
	return Parse(content)
}

// Parse decodes a YAML catalog with top-level "sensors" and "measurements"
// mappings. The document is walked as a node tree rather than decoded into
// Go maps so the order of both mappings survives.
func Parse(content []byte) (*Catalog, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCatalogParsing, err.Error())
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrCatalogParsing)
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrCatalogParsing)
	}

	var sensorsNode, measurementsNode *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		switch doc.Content[i].Value {
		case "sensors":
			sensorsNode = doc.Content[i+1]
		case "measurements":
			measurementsNode = doc.Content[i+1]
		}
	}

	sensors, err := decodeOrdered(sensorsNode, "sensors", func(s *Sensor, key string) { s.Key = key })
	if err != nil {
		return nil, err
	}
	measurements, err := decodeOrdered(measurementsNode, "measurements", func(m *Measurement, key string) { m.Key = key })
	if err != nil {
		return nil, err
	}

	return New(sensors, measurements)
}

func decodeOrdered[T any](node *yaml.Node, section string, setKey func(*T, string)) ([]T, error) {
	if node == nil || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s must be a mapping (line %d)", ErrCatalogParsing, section, node.Line)
	}

	out := make([]T, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var item T
		if err := valueNode.Decode(&item); err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %s", ErrCatalogParsing, section, keyNode.Value, err.Error())
		}
		setKey(&item, keyNode.Value)
		out = append(out, item)
	}
	return out, nil
}
