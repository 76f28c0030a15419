package monaco

import (
	"testing"

	"pgregory.net/rapid"
)

func TestWrap(t *testing.T) {
	id := "/project/node_modules/monaco-editor/esm/vs/editor/editor.api.js"
	wrapped := Wrap(id, FeaturesSuffix)

	if wrapped != "\x00"+id+"?monaco-features" {
		t.Fatalf("unexpected wrapped id %q", wrapped)
	}
	if !IsWrapped(wrapped, FeaturesSuffix) {
		t.Fatal("expected wrapped id to carry the features suffix")
	}
	if IsWrapped(wrapped, LanguagesSuffix) {
		t.Fatal("did not expect wrapped id to carry the languages suffix")
	}
	if IsWrapped(id, FeaturesSuffix) {
		t.Fatal("did not expect a plain id to be wrapped")
	}
}

func TestWrapRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.String().Draw(t, "id")
		suffix := rapid.SampledFrom([]string{FeaturesSuffix, LanguagesSuffix}).Draw(t, "suffix")

		wrapped := Wrap(id, suffix)
		if !IsWrapped(wrapped, suffix) {
			t.Fatalf("%q is not recognized as wrapped", wrapped)
		}
		if got := Unwrap(wrapped, suffix); got != id {
			t.Fatalf("expected %q, got %q", id, got)
		}
	})
}
