package metadata

import (
	"fmt"
	"strings"
)

// IssuesURL is where users are asked to report library versions without tables.
const IssuesURL = "https://github.com/chengcyber/rollup-plugin-monaco-editor/issues"

// MetadataShapeError is returned when esm/metadata.js does not export
// `features` and `languages` arrays. Resolve recovers from it by falling back
// to the embedded tables.
type MetadataShapeError struct {
	Filename string
	Reason   string
}

func (e *MetadataShapeError) Error() string {
	return fmt.Sprintf("unexpected shape of %s: %s", e.Filename, e.Reason)
}

type UnsupportedVersionError struct {
	Version string
	Ranges  []string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf(
		"current monaco-editor version (%s) is not supported, supported versions are %s. Please file an issue at\n%s",
		e.Version,
		strings.Join(e.Ranges, ", "),
		IssuesURL,
	)
}

// MissingModuleError lists selected entry or worker modules that do not exist
// in the installed library.
type MissingModuleError struct {
	Root    string
	Modules []string
}

func (e *MissingModuleError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d selected module(s) are missing from %s:\n", len(e.Modules), e.Root))
	for _, module := range e.Modules {
		sb.WriteString(fmt.Sprintf("\t%s\n", module))
	}

	return sb.String()
}
