package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OptionsFilename is looked up in the project directory by LoadProjectOptions.
const OptionsFilename = "monaco.config.json"

type PluginOptions struct {
	// Languages selects languages by label. Empty means every language.
	Languages []string `json:"languages"`

	// Features selects features by label. Entries prefixed with `!` turn the
	// list into a deny-list. Empty means every feature.
	Features []string `json:"features"`

	// ESM forces `new Worker(url, { type: "module" })` even when the output
	// format is not an ES module format.
	ESM *bool `json:"esm,omitempty"`

	// PathPrefix is prepended to worker script URLs at runtime. Defaults to
	// the output directory with a leading slash.
	PathPrefix string `json:"pathPrefix"`
}

func (options *PluginOptions) validate() error {
	for _, language := range options.Languages {
		if strings.TrimSpace(language) == "" {
			return fmt.Errorf("'languages' must not contain empty labels")
		}
		if strings.HasPrefix(language, "!") {
			return fmt.Errorf("'languages' does not support exclusions (got '%s')", language)
		}
	}
	for _, feature := range options.Features {
		if strings.TrimSpace(strings.TrimPrefix(feature, "!")) == "" {
			return fmt.Errorf("'features' must not contain empty labels")
		}
	}
	return nil
}

// ParseOptions parses and validates a monaco.config.json buffer
func ParseOptions(buf []byte, options *PluginOptions) error {
	if err := json.Unmarshal(buf, options); err != nil {
		return fmt.Errorf("failed to parse %s: %w", OptionsFilename, err)
	}
	return options.validate()
}

// LoadOptions reads plugin options from filename.
func LoadOptions(filename string) (PluginOptions, error) {
	var options PluginOptions

	buf, err := os.ReadFile(filename)
	if err != nil {
		return options, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := ParseOptions(buf, &options); err != nil {
		return PluginOptions{}, err
	}
	return options, nil
}

// LoadProjectOptions reads monaco.config.json from the project directory. A
// missing file is not an error and yields the zero options.
func LoadProjectOptions() (PluginOptions, error) {
	dir, err := GetProjectPath()
	if err != nil {
		return PluginOptions{}, fmt.Errorf("failed to get project path: %w", err)
	}

	filename := filepath.Join(dir, OptionsFilename)
	if !fileExists(filename) {
		return PluginOptions{}, nil
	}
	return LoadOptions(filename)
}
