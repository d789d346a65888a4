package catalog

import (
	"fmt"
	"os"

	"booking-service/internal/models"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Food   []models.FoodItem `yaml:"food"`
	Movies []models.Movie    `yaml:"movies"`
}

// LoadFile reads a YAML catalog with top-level food and movies lists
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(f.Food, f.Movies)
}
