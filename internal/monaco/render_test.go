package monaco

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workerFactoryCode = `function getWorker(workerId, label) {
  return new Worker(self.MonacoEnvironment.getWorkerUrl(workerId, label), { name: label });
}
function getLegacyWorker(url) {
  return new Worker(url);
}`

func seenPlugin(t *testing.T, options Options) (*Plugin, string) {
	t.Helper()

	plugin, root := newTestPlugin(t, options)
	_, ok, err := plugin.Transform(context.Background(), &fakeHost{}, "", entryPath(root))
	require.NoError(t, err)
	require.True(t, ok)
	return plugin, root
}

func TestRenderChunkBeforeEntryIsSeen(t *testing.T) {
	plugin, root := newTestPlugin(t, Options{})

	_, changed, err := plugin.RenderChunk(&fakeHost{}, "code", Chunk{
		FileName:  "index.js",
		IsEntry:   true,
		ModuleIDs: []string{entryPath(root)},
	}, OutputOptions{Format: "es", Dir: "dist"})

	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRenderChunkWithoutCoreEntry(t *testing.T) {
	plugin, _ := seenPlugin(t, Options{})

	_, changed, err := plugin.RenderChunk(&fakeHost{}, workerFactoryCode, Chunk{
		FileName:  "other.js",
		IsEntry:   true,
		ModuleIDs: []string{"/project/src/other.js"},
	}, OutputOptions{Format: "es", Dir: "dist"})

	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRenderChunkEntryImportingCoreEntry(t *testing.T) {
	plugin, root := seenPlugin(t, Options{})

	code, changed, err := plugin.RenderChunk(&fakeHost{}, `import "./chunk-abc.js";`, Chunk{
		FileName:          "other.js",
		IsEntry:           true,
		ModuleIDs:         []string{"/project/src/other.js"},
		ImportedModuleIDs: []string{"/project/src/shared.js", entryPath(root)},
	}, OutputOptions{Format: "es", Dir: "dist"})

	require.NoError(t, err)
	require.True(t, changed)
	assert.True(t, strings.HasPrefix(code, `self["MonacoEnvironment"]`))
	assert.True(t, strings.HasSuffix(code, `import "./chunk-abc.js";`))

	// a shared chunk that only imports the core entry is left alone
	_, changed, err = plugin.RenderChunk(&fakeHost{}, workerFactoryCode, Chunk{
		FileName:          "chunk-def.js",
		ModuleIDs:         []string{"/project/src/shared.js"},
		ImportedModuleIDs: []string{entryPath(root)},
	}, OutputOptions{Format: "es", Dir: "dist"})

	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRenderChunkSkipsWorkerChunks(t *testing.T) {
	plugin, root := seenPlugin(t, Options{})

	_, changed, err := plugin.RenderChunk(&fakeHost{}, workerFactoryCode, Chunk{
		FileName:  "monaco-editor/esm/vs/editor/editor.worker.js",
		IsEntry:   true,
		ModuleIDs: []string{entryPath(root)},
	}, OutputOptions{Format: "es", Dir: "dist"})

	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRenderChunkESM(t *testing.T) {
	for _, format := range []string{"es", "esm", "module"} {
		t.Run(format, func(t *testing.T) {
			plugin, root := seenPlugin(t, Options{})

			code, changed, err := plugin.RenderChunk(&fakeHost{}, workerFactoryCode, Chunk{
				FileName:  "chunk-abc.js",
				ModuleIDs: []string{entryPath(root)},
			}, OutputOptions{Format: format, Dir: "dist"})

			require.NoError(t, err)
			require.True(t, changed)
			assert.Contains(t, code, `getWorkerUrl(workerId, label), { name: label, type: "module" });`)
			assert.Contains(t, code, `new Worker(url, { type: "module" });`)
			assert.NotContains(t, code, "MonacoEnvironment\"] =")
		})
	}
}

func TestRenderChunkForcedESM(t *testing.T) {
	esm := true
	plugin, root := seenPlugin(t, Options{ESM: &esm})

	code, changed, err := plugin.RenderChunk(&fakeHost{}, workerFactoryCode, Chunk{
		FileName:  "chunk-abc.js",
		ModuleIDs: []string{entryPath(root)},
	}, OutputOptions{Format: "iife", Dir: "dist"})

	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, 2, strings.Count(code, `type: "module"`))
}

func TestRenderChunkIIFELeavesWorkersAlone(t *testing.T) {
	plugin, root := seenPlugin(t, Options{})

	_, changed, err := plugin.RenderChunk(&fakeHost{}, workerFactoryCode, Chunk{
		FileName:  "chunk-abc.js",
		ModuleIDs: []string{entryPath(root)},
	}, OutputOptions{Format: "iife", Dir: "dist"})

	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRenderChunkEntryEnvironment(t *testing.T) {
	plugin, root := seenPlugin(t, Options{Languages: []string{"json"}})
	host := &fakeHost{}

	code, changed, err := plugin.RenderChunk(host, workerFactoryCode, Chunk{
		FileName:  "index.js",
		IsEntry:   true,
		ModuleIDs: []string{"/project/src/index.js", entryPath(root)},
	}, OutputOptions{Format: "iife", Dir: "dist"})

	require.NoError(t, err)
	require.True(t, changed)
	assert.True(t, strings.HasPrefix(code, `self["MonacoEnvironment"] = (function (paths) {`))
	assert.True(t, strings.HasSuffix(code, workerFactoryCode))
	assert.Contains(t, code, `var pathPrefix = "/dist";`)
	assert.Contains(t, code, `"json": "monaco-editor/esm/vs/language/json/json.worker.js"`)
	assert.Empty(t, host.warnings)
}

func TestRenderChunkPathPrefix(t *testing.T) {
	cases := []struct {
		name     string
		option   string
		dir      string
		expected string
		warns    bool
	}{
		{"option wins", "https://cdn.example.com/assets/", "dist", `"https://cdn.example.com/assets/"`, false},
		{"dir gets a leading slash", "", "dist", `"/dist"`, false},
		{"absolute dir", "", "/srv/www", `"/srv/www"`, false},
		{"no dir", "", "", `""`, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plugin, root := seenPlugin(t, Options{PathPrefix: tc.option})
			host := &fakeHost{}

			code, _, err := plugin.RenderChunk(host, "", Chunk{
				FileName:  "index.js",
				IsEntry:   true,
				ModuleIDs: []string{entryPath(root)},
			}, OutputOptions{Dir: tc.dir})

			require.NoError(t, err)
			assert.Contains(t, code, "var pathPrefix = "+tc.expected+";")
			assert.Equal(t, tc.warns, len(host.warnings) == 1)
		})
	}
}
