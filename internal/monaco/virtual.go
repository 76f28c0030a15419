package monaco

import "strings"

// VirtualPrefix marks ids that do not exist on disk. Hosts must not try to
// read or transform them.
const VirtualPrefix = "\x00"

// Only feature aggregates are served as modules; languages are inlined into
// the core entry. LanguagesSuffix stays reserved so the two kinds of id never
// collide.
const (
	FeaturesSuffix  = "?monaco-features"
	LanguagesSuffix = "?monaco-languages"
)

func Wrap(id string, suffix string) string {
	return VirtualPrefix + id + suffix
}

func IsWrapped(id string, suffix string) bool {
	return strings.HasSuffix(id, suffix)
}

// Unwrap is the inverse of Wrap. It does not check that id is wrapped.
func Unwrap(id string, suffix string) string {
	return id[len(VirtualPrefix) : len(id)-len(suffix)]
}
