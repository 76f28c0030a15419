package monaco

import (
	"regexp"
	"strings"
)

var (
	coreSelfImportPattern      = regexp.MustCompile(`import\s['"]\.\.\/\.\.\/editor\/editor\.api\.js['"];?`)
	fillerImportPattern        = regexp.MustCompile(`import\s+.*from ['"]\.\/fillers\/monaco-editor-core\.js['"];?`)
	coreNamespaceImportPattern = regexp.MustCompile(`import\s+\*\s+as\s+monaco_editor_core_star\s+from\s+["']\.\.\/\.\.\/editor\/editor\.api\.js["'];?`)
	registerLanguagePattern    = regexp.MustCompile(`import\s+{\s+registerLanguage\s+}\s+from\s+['"]\.\.\/_\.contribution\.js['"];?`)
)

const modeAccessor = "getMode()"

func stripFirst(pattern *regexp.Regexp, src string) (string, bool) {
	loc := pattern.FindStringIndex(src)
	if loc == nil {
		return src, false
	}
	return src[:loc[0]] + src[loc[1]:], true
}

// StripCoreSelfImport removes the side-effect import of the editor API a
// language module uses to make sure the editor is loaded. The language code
// ends up inside the editor API module itself, where that import is circular.
func StripCoreSelfImport(src string) string {
	src, _ = stripFirst(coreSelfImportPattern, src)
	return src
}

// StripFillerImport removes the import of the monaco-editor-core filler, which
// re-exports the editor API the code is concatenated into.
func StripFillerImport(src string) string {
	src, _ = stripFirst(fillerImportPattern, src)
	return src
}

// StripCoreNamespaceImport removes `import * as monaco_editor_core_star from
// "../../editor/editor.api.js"`.
func StripCoreNamespaceImport(src string) string {
	src, _ = stripFirst(coreNamespaceImportPattern, src)
	return src
}

// RenameModeAccessor renames every getMode() to get<name>Mode() so several
// languages can share one module scope.
func RenameModeAccessor(src string, name string) string {
	return strings.ReplaceAll(src, modeAccessor, "get"+name+"Mode()")
}

// StripRegisterLanguageImport removes the import of the shared
// registerLanguage helper and reports whether there was one.
func StripRegisterLanguageImport(src string) (string, bool) {
	return stripFirst(registerLanguagePattern, src)
}
