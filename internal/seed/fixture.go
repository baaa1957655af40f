package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the optional YAML-defined taxonomy for seeding: fixed category
// and tag names instead of the built-in lists.
type Fixture struct {
	Categories []string `yaml:"categories"`
	Tags       []string `yaml:"tags"`
}

// loadFixture parses the fixture file at path. An empty path yields an empty
// fixture, which makes the seeder fall back to its built-in lists.
func loadFixture(path string) (*Fixture, error) {
	if path == "" {
		return &Fixture{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &fixture, nil
}
