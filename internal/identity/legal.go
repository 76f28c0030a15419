package identity

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	extendedLengthPathRe = regexp.MustCompile(`^\\\\\?\\`)
	dashLetterRe         = regexp.MustCompile(`-(\w)`)
	illegalIdentCharRe   = regexp.MustCompile(`[^$_a-zA-Z0-9]`)
)

// Slash converts Windows path separators to forward slashes. Extended-length
// paths (`\\?\C:\...`) and paths containing non-ASCII characters are returned
// unchanged, since rewriting them can change which file they point to.
func Slash(p string) string {
	if extendedLengthPathRe.MatchString(p) {
		return p
	}
	for _, r := range p {
		if r > unicode.MaxASCII {
			return p
		}
	}
	return strings.ReplaceAll(p, `\`, "/")
}

var forbiddenIdentifiers = func() map[string]bool {
	words := "break case class catch const continue debugger default delete do else export extends finally for function if import in instanceof let new return super switch this throw try typeof var void while with yield enum await implements package protected static interface private public " +
		"arguments Infinity NaN undefined null true false eval uneval isFinite isNaN parseFloat parseInt decodeURI decodeURIComponent encodeURI encodeURIComponent escape unescape Object Function Boolean Symbol Error EvalError InternalError RangeError ReferenceError SyntaxError TypeError URIError Number Math Date String RegExp Array Int8Array Uint8Array Uint8ClampedArray Int16Array Uint16Array Int32Array Uint32Array Float32Array Float64Array Map Set WeakMap WeakSet SIMD ArrayBuffer DataView JSON Promise Generator GeneratorFunction Reflect Proxy Intl"

	set := make(map[string]bool, 128)
	for _, word := range strings.Fields(words) {
		set[word] = true
	}
	set[""] = true
	return set
}()

// MakeLegal turns an arbitrary string into a legal JavaScript identifier.
// `-x` becomes `X`, every other character outside [$_a-zA-Z0-9] becomes `_`,
// and identifiers that start with a digit or collide with a reserved word or
// a well-known global get a leading underscore.
func MakeLegal(str string) string {
	identifier := dashLetterRe.ReplaceAllStringFunc(str, func(match string) string {
		return strings.ToUpper(match[1:])
	})
	identifier = illegalIdentCharRe.ReplaceAllString(identifier, "_")

	if (identifier != "" && identifier[0] >= '0' && identifier[0] <= '9') || forbiddenIdentifiers[identifier] {
		identifier = "_" + identifier
	}
	if identifier == "" {
		return "_"
	}
	return identifier
}
