package monaco

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runEnvironment evaluates the environment script on a fake page at
// origin + "/app/" and returns getWorkerUrl for label.
func runEnvironment(t *testing.T, script string, origin string, label string) string {
	t.Helper()

	vm := goja.New()
	require.NoError(t, vm.Set("origin", origin))
	_, err := vm.RunString(`
		var self = {};
		var window = {
			location: {
				hash: "#top",
				search: "?q=1",
				pathname: "/app/",
				toString: function () { return origin + this.pathname + this.search + this.hash; }
			}
		};
		var Blob = function (parts, options) { this.parts = parts; };
		var URL = { createObjectURL: function (blob) { return "blob:" + blob.parts.join(""); } };
	`)
	require.NoError(t, err)

	_, err = vm.RunString(script)
	require.NoError(t, err)

	value, err := vm.RunString(`self.MonacoEnvironment.getWorkerUrl("vs/editor/editor", "` + label + `")`)
	require.NoError(t, err)
	return value.String()
}

var workerTable = WorkerPathTable{
	"editorWorkerService": "monaco-editor/esm/vs/editor/editor.worker.js",
	"json":                "monaco-editor/esm/vs/language/json/json.worker.js",
}

func TestEnvironmentGetWorkerUrl(t *testing.T) {
	cases := []struct {
		name     string
		prefix   string
		label    string
		expected string
	}{
		{"no prefix", "", "json", "monaco-editor/esm/vs/language/json/json.worker.js"},
		{"dir prefix", "/dist", "json", "/dist/monaco-editor/esm/vs/language/json/json.worker.js"},
		{"trailing slash", "/dist/", "editorWorkerService", "/dist/monaco-editor/esm/vs/editor/editor.worker.js"},
		{"same origin", "https://example.com/static", "json", "https://example.com/static/monaco-editor/esm/vs/language/json/json.worker.js"},
		{
			"cross origin",
			"https://cdn.example.net/static",
			"json",
			`blob:/*json*/importScripts("https://cdn.example.net/static/monaco-editor/esm/vs/language/json/json.worker.js");`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			script, err := RenderEnvironment(tc.prefix, workerTable)
			require.NoError(t, err)

			assert.Equal(t, tc.expected, runEnvironment(t, script, "https://example.com", tc.label))
		})
	}
}

func TestRenderEnvironment(t *testing.T) {
	script, err := RenderEnvironment("/dist/", WorkerPathTable{
		"editorWorkerService": "monaco-editor/esm/vs/editor/editor.worker.js",
	})
	require.NoError(t, err)

	assert.Contains(t, script, `var pathPrefix = "/dist/";`)
	assert.Contains(t, script, "\"editorWorkerService\": \"monaco-editor/esm/vs/editor/editor.worker.js\"\n}")
	assert.Contains(t, script, "importScripts")
}

func TestRenderEnvironmentEscapes(t *testing.T) {
	script, err := RenderEnvironment(`/a"b/<c>`, WorkerPathTable{})
	require.NoError(t, err)

	assert.Contains(t, script, `var pathPrefix = "/a\"b/<c>";`)
	assert.Contains(t, script, "})({});")
}
