package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type PackageJson struct {
	Name         string
	Version      string
	Module       string
	Dependencies map[string]string
}

// ParsePackageJson parses the given package.json file from the buffer
func ParsePackageJson(buf []byte, packageJson *PackageJson) error {
	if err := json.Unmarshal(buf, packageJson); err != nil {
		return fmt.Errorf("failed to unmarshal package.json file: %w", err)
	}
	return nil
}

// LoadPackageJson loads the package.json file from the file that exists at `filename`
func LoadPackageJson(filename string) (*PackageJson, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json file: %w", err)
	}

	var packageJson PackageJson
	if err := ParsePackageJson(buf, &packageJson); err != nil {
		return nil, err
	}

	return &packageJson, nil
}
