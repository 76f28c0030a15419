package monaco

import (
	"path/filepath"
	"regexp"
	"strings"

	"monacobundle.dev/internal/identity"
)

// importSpecPattern matches the specifier of static imports, re-exports, and
// dynamic imports: import X from "x", import "x", import("x"), export * from "x".
var importSpecPattern = regexp.MustCompile(`(?:from\s+|import\s*\(\s*|import\s+)["']([^"']+)["']`)

func isRelativeSpecifier(spec string) bool {
	return strings.HasPrefix(spec, ".")
}

// RetargetImports rewrites the relative import specifiers of code that lived
// in fromDir so that they point at the same files when the code is moved to
// toDir. Bare and absolute specifiers are left alone.
func RetargetImports(src string, fromDir string, toDir string) string {
	matches := importSpecPattern.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src
	}

	var sb strings.Builder
	sb.Grow(len(src))

	last := 0
	for _, match := range matches {
		specStart, specEnd := match[2], match[3]
		spec := src[specStart:specEnd]
		if !isRelativeSpecifier(spec) {
			continue
		}

		retargeted, ok := retargetSpecifier(spec, fromDir, toDir)
		if !ok {
			continue
		}

		sb.WriteString(src[last:specStart])
		sb.WriteString(retargeted)
		last = specEnd
	}
	sb.WriteString(src[last:])

	return sb.String()
}

func retargetSpecifier(spec string, fromDir string, toDir string) (string, bool) {
	target := filepath.Join(fromDir, filepath.FromSlash(spec))
	rel, err := filepath.Rel(toDir, target)
	if err != nil {
		return "", false
	}

	rel = identity.Slash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "./") || strings.HasPrefix(rel, "../") {
		return rel, true
	}
	return "./" + rel, true
}
