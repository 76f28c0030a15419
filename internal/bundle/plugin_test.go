package bundle

import (
	"testing"

	es "github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"

	"monacobundle.dev/internal/monaco"
)

func TestApplyModuleContext(t *testing.T) {
	code := "var __awaiter = (this && this.__awaiter) || function () {};\nvar x = this;"
	library := "/p/node_modules/monaco-editor/esm/vs/base/common/async.js"

	assert.Equal(t, code, applyModuleContext(nil, library, code))

	self := monaco.ModuleContextMap{library: "self"}
	assert.Equal(t,
		"var __awaiter = (self && self.__awaiter) || function () {};\nvar x = this;",
		applyModuleContext(self, library, code),
	)
	assert.Equal(t, code, applyModuleContext(self, "/p/src/index.js", code))
	assert.Equal(t, code, applyModuleContext(monaco.ModuleContextMap{library: "this"}, library, code))
}

func TestBuildErrorMessage(t *testing.T) {
	assert.Equal(t, "Unknown error", BuildError(nil).Error())

	single := BuildError{{Text: "Could not resolve \"./missing.js\"", Location: &es.Location{File: "src/broken.js", Line: 1, Column: 7}}}
	assert.Equal(t, `Could not resolve "./missing.js" in src/broken.js:1:7`, single.Error())

	several := BuildError{
		{Text: "failed to read x", PluginName: "monaco"},
		{Text: "second"},
		{Text: "third"},
	}
	assert.Equal(t, "monaco: failed to read x (and 2 more errors)", several.Error())
	assert.Equal(t, []string{"monaco: failed to read x", "second", "third"}, several.Messages())

	virtual := BuildError{{Text: "boom", Location: &es.Location{File: "monaco-virtual:\x00/lib/editor.api.js?monaco-features", Line: 2, Column: 0}}}
	assert.Equal(t, "boom in /lib/editor.api.js?monaco-features:2:0", virtual.Error())
}

func TestMetafileStaticImports(t *testing.T) {
	meta := metafile{Outputs: map[string]metafileOutput{
		"dist/index.js": {Imports: []metafileImport{
			{Path: "dist/chunk-a.js", Kind: "import-statement"},
			{Path: "dist/lazy.js", Kind: "dynamic-import"},
			{Path: "https://cdn.example/x.js", Kind: "import-statement"},
		}},
		"dist/chunk-a.js": {Imports: []metafileImport{
			{Path: "dist/chunk-b.js", Kind: "import-statement"},
			{Path: "dist/index.js", Kind: "import-statement"},
		}},
		"dist/chunk-b.js": {Imports: []metafileImport{
			{Path: "dist/chunk-a.js", Kind: "import-statement"},
		}},
		"dist/lazy.js": {},
	}}

	assert.Equal(t, []string{"dist/chunk-a.js", "dist/chunk-b.js"}, meta.staticImports("dist/index.js"))
	assert.Empty(t, meta.staticImports("dist/lazy.js"))
}
