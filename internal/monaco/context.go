package monaco

import (
	"strings"

	"monacobundle.dev/internal/identity"
)

// ModuleContext decides what `this` means at the top level of a module.
type ModuleContext interface {
	Context(id string) (string, bool)
}

// ModuleContextMap assigns contexts by module id.
type ModuleContextMap map[string]string

func (m ModuleContextMap) Context(id string) (string, bool) {
	value, ok := m[id]
	return value, ok
}

type ModuleContextFunc func(id string) (string, bool)

func (f ModuleContextFunc) Context(id string) (string, bool) {
	return f(id)
}

type InputOptions struct {
	ModuleContext ModuleContext
}

// libraryContext is the top level `this` of library modules. They run in
// windows and in workers, so they need the global both have.
const libraryContext = "self"

// Options makes every library module use `self` as its top level `this`.
// Other modules keep whatever the previous module context decided.
func (p *Plugin) Options(input InputOptions) InputOptions {
	previous := input.ModuleContext
	input.ModuleContext = ModuleContextFunc(func(id string) (string, bool) {
		if strings.Contains(identity.Slash(id), "node_modules/"+LibraryPackage) {
			return libraryContext, true
		}
		if previous == nil {
			return "", false
		}
		return previous.Context(id)
	})
	return input
}
