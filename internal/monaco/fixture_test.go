package monaco

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"monacobundle.dev/internal/metadata"
)

func libraryFiles() map[string]string {
	files := map[string]string{}
	files["package.json"] = `{"name":"monaco-editor","version":"0.34.0"}`
	files["esm/vs/editor/editor.api.js"] = "export const editor = {};\n"
	files["esm/vs/editor/editor.main.js"] = "import './editor.api.js';\nexport * from './editor.api.js';\n"
	files["esm/vs/editor/editor.worker.js"] = "self.onmessage = function () {};\n"
	files["esm/vs/editor/contrib/find/findController.js"] = "export const find = 1;\n"
	files["esm/vs/editor/contrib/hover/hover.js"] = "export const hover = 1;\n"

	files["esm/vs/basic-languages/_.contribution.js"] = "import { languages } from './fillers/monaco-editor-core.js';\n" +
		"import { loadAll } from './loader.js';\n" +
		"export function registerLanguage(def) { languages.register(def); }\n"
	files["esm/vs/basic-languages/css/css.contribution.js"] = "import { registerLanguage } from '../_.contribution.js';\n" +
		"registerLanguage({ id: 'css', loader: function () { return import('./css.js'); } });\n"
	files["esm/vs/basic-languages/python/python.contribution.js"] = "import { registerLanguage } from '../_.contribution.js';\n" +
		"registerLanguage({ id: 'python', loader: function () { return import('./python.js'); } });\n"

	files["esm/vs/language/json/monaco.contribution.js"] = "import '../../editor/editor.api.js';\n" +
		"import * as monaco_editor_core_star from \"../../editor/editor.api.js\";\n" +
		"import { languages } from './fillers/monaco-editor-core.js';\n" +
		"function getMode() { return import('./jsonMode.js'); }\n" +
		"languages.onLanguage('json', function () { getMode().then(function (mode) { return mode.setupMode(); }); });\n"
	files["esm/vs/language/json/json.worker.js"] = "self.onmessage = function () {};\n"
	files["esm/vs/language/css/monaco.contribution.js"] = "import '../../editor/editor.api.js';\n" +
		"function getMode() { return import('./cssMode.js'); }\n" +
		"getMode();\n"
	files["esm/vs/language/css/css.worker.js"] = "self.onmessage = function () {};\n"
	return files
}

var testMetadata = metadata.Metadata{
	Source: metadata.SourceLive,
	Features: []metadata.FeatureDescriptor{
		{Label: "find", Entry: metadata.Entry{"vs/editor/contrib/find/findController"}},
		{Label: "hover", Entry: metadata.Entry{"vs/editor/contrib/hover/hover"}},
	},
	Languages: []metadata.LanguageDescriptor{
		{
			Label:  "css",
			Entry:  metadata.Entry{"vs/basic-languages/css/css.contribution", "vs/language/css/monaco.contribution"},
			Worker: &metadata.WorkerEntry{ID: "vs/language/css/cssWorker", Entry: "vs/language/css/css.worker"},
		},
		{
			Label:  "json",
			Entry:  metadata.Entry{"vs/language/json/monaco.contribution"},
			Worker: &metadata.WorkerEntry{ID: "vs/language/json/jsonWorker", Entry: "vs/language/json/json.worker"},
		},
		{
			Label: "python",
			Entry: metadata.Entry{"vs/basic-languages/python/python.contribution"},
		},
	},
}

// writeLibrary creates a small copy of the library under node_modules and
// returns its root.
func writeLibrary(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "node_modules", "monaco-editor")
	for name, content := range libraryFiles() {
		filename := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newTestPlugin(t *testing.T, options Options) (*Plugin, string) {
	t.Helper()

	root := writeLibrary(t)
	cfg, err := NewConfig(options, testMetadata, root)
	if err != nil {
		t.Fatalf("failed to create config: %s", err)
	}
	return New(cfg), root
}

type fakeHost struct {
	mu       sync.Mutex
	emitted  []EmittedChunk
	warnings []string
}

func (h *fakeHost) EmitChunk(chunk EmittedChunk) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.emitted = append(h.emitted, chunk)
}

func (h *fakeHost) Warn(message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.warnings = append(h.warnings, message)
}

func removeFile(filename string) error {
	return os.Remove(filename)
}
