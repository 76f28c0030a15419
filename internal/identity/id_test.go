package identity

import "testing"

func CategoryFuncTester(t *testing.T, expected string, fields ...string) {
	o := Category(fields...)

	if o != expected {
		t.Fatalf("failed to sanitize bad input, got: %v, expected: %v", o, expected)
	}
}

func TestCategoryFunc(t *testing.T) {
	CategoryFuncTester(t, "/builds/dist", "builds", "dist")
	CategoryFuncTester(t, "/builds/%2E%2E/out%2Fworkers", "builds", "..", "out/workers")
	CategoryFuncTester(t, "/builds/%2E/dist", "builds", ".", "dist")
	CategoryFuncTester(t, "/builds/..%2Fout", "builds", "../out")
}

func TestIdString(t *testing.T) {
	id := Id{Category: Category("builds", "dist"), Key: "reload"}
	if id.String() != "/builds/dist#reload" {
		t.Fatalf("unexpected id string: %s", id.String())
	}
}
