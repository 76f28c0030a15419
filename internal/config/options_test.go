package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	var options PluginOptions
	err := ParseOptions([]byte(`{
		"languages": ["json", "css"],
		"features": ["!contextmenu"],
		"esm": true,
		"pathPrefix": "/static/"
	}`), &options)
	require.NoError(t, err)

	assert.Equal(t, []string{"json", "css"}, options.Languages)
	assert.Equal(t, []string{"!contextmenu"}, options.Features)
	require.NotNil(t, options.ESM)
	assert.True(t, *options.ESM)
	assert.Equal(t, "/static/", options.PathPrefix)
}

func TestParseOptionsRejectsBadLabels(t *testing.T) {
	cases := map[string]string{
		"empty language":   `{"languages": [""]}`,
		"negated language": `{"languages": ["!json"]}`,
		"bare bang":        `{"features": ["!"]}`,
		"not json":         `languages: json`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			var options PluginOptions
			assert.Error(t, ParseOptions([]byte(input), &options))
		})
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), OptionsFilename))
	assert.Error(t, err)
}

func TestLoadOptionsFromFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), OptionsFilename)
	writeFile(t, filename, `{"languages":["json"]}`)

	options, err := LoadOptions(filename)
	require.NoError(t, err)
	assert.Equal(t, []string{"json"}, options.Languages)
	assert.Nil(t, options.ESM)
	assert.Empty(t, options.Features)
}
