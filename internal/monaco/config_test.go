package monaco

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monacobundle.dev/internal/metadata"
)

func TestNewConfigWorkers(t *testing.T) {
	cfg, err := NewConfig(Options{Languages: []string{"json"}}, testMetadata, "/lib")
	require.NoError(t, err)

	assert.Equal(t, []string{"json"}, cfg.Languages)
	assert.Equal(t, []string{"find", "hover"}, cfg.Features)
	assert.Equal(t, []string{"vs/language/json/monaco.contribution"}, cfg.LanguagePaths)
	assert.Equal(t, []string{"vs/editor/contrib/find/findController", "vs/editor/contrib/hover/hover"}, cfg.FeaturePaths)

	require.Len(t, cfg.Workers, 2)
	assert.Equal(t, "editorWorkerService", cfg.Workers[0].Label)
	assert.Equal(t, "json", cfg.Workers[1].Label)
	assert.Equal(t, WorkerPathTable{
		"editorWorkerService": "monaco-editor/esm/vs/editor/editor.worker.js",
		"json":                "monaco-editor/esm/vs/language/json/json.worker.js",
	}, cfg.WorkerPaths)
}

func TestNewConfigEverythingByDefault(t *testing.T) {
	cfg, err := NewConfig(Options{}, testMetadata, "/lib")
	require.NoError(t, err)

	assert.Equal(t, []string{"css", "json", "python"}, cfg.Languages)
	assert.Len(t, cfg.LanguagePaths, 4)
	assert.Len(t, cfg.Workers, 3)
}

func TestNewConfigFirstLabelWins(t *testing.T) {
	meta := metadata.Metadata{
		Source: metadata.SourceLive,
		Languages: []metadata.LanguageDescriptor{
			{Label: "typescript", Entry: metadata.Entry{"ts"}, Worker: &metadata.WorkerEntry{ID: "tsWorker", Entry: "ts.worker"}},
		},
		Features: []metadata.FeatureDescriptor{
			{Label: "typescript", Entry: metadata.Entry{"feature"}, Worker: &metadata.WorkerEntry{ID: "other", Entry: "other.worker"}},
			{Label: "editorWorkerService", Entry: metadata.Entry{"feature2"}, Worker: &metadata.WorkerEntry{ID: "x", Entry: "x.worker"}},
		},
	}

	cfg, err := NewConfig(Options{}, meta, "/lib")
	require.NoError(t, err)

	require.Len(t, cfg.Workers, 2)
	assert.Equal(t, "monaco-editor/esm/ts.worker.js", cfg.WorkerPaths["typescript"])
	assert.Equal(t, "monaco-editor/esm/vs/editor/editor.worker.js", cfg.WorkerPaths["editorWorkerService"])
}

func TestNewConfigUnknownLabels(t *testing.T) {
	cfg, err := NewConfig(Options{Languages: []string{"klingon"}, Features: []string{"telepathy"}}, testMetadata, "/lib")
	require.NoError(t, err)

	assert.Empty(t, cfg.LanguagePaths)
	assert.Empty(t, cfg.FeaturePaths)
	assert.Len(t, cfg.Workers, 1)
}

func TestNewConfigValidatesLegacyTables(t *testing.T) {
	meta := testMetadata
	meta.Source = metadata.SourceLegacy

	_, err := NewConfig(Options{Languages: []string{"json"}}, meta, t.TempDir())

	var missing *metadata.MissingModuleError
	assert.True(t, errors.As(err, &missing), "expected MissingModuleError, got %v", err)
}

func TestWorkerPathTableContains(t *testing.T) {
	table := WorkerPathTable{"json": "monaco-editor/esm/vs/language/json/json.worker.js"}

	assert.True(t, table.Contains("monaco-editor/esm/vs/language/json/json.worker.js"))
	assert.False(t, table.Contains("index.js"))
}

func TestIsCoreEntry(t *testing.T) {
	assert.True(t, IsCoreEntry("/p/node_modules/monaco-editor/esm/vs/editor/editor.api.js"))
	assert.True(t, IsCoreEntry("/p/node_modules/monaco-editor/esm/vs/editor/editor.main.js"))
	assert.True(t, IsCoreEntry(`C:\p\node_modules\monaco-editor\esm\vs\editor\editor.api.js`))
	assert.False(t, IsCoreEntry("/p/node_modules/monaco-editor/esm/vs/editor/editor.worker.js"))
	assert.False(t, IsCoreEntry("/p/src/index.js"))
}
