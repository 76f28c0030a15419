package monaco

import (
	"strings"

	"monacobundle.dev/internal/identity"
)

// Chunk describes one output file of the host bundler.
type Chunk struct {
	FileName string
	IsEntry  bool
	// ModuleIDs of every module bundled into the chunk
	ModuleIDs []string
	// ImportedModuleIDs of the modules in the chunks this one statically
	// imports, directly or through other chunks
	ImportedModuleIDs []string
}

type OutputOptions struct {
	Format string
	Dir    string
}

func (output OutputOptions) isESM() bool {
	switch output.Format {
	case "es", "esm", "module":
		return true
	}
	return false
}

func (chunk Chunk) containsCoreEntry() bool {
	return anyCoreEntry(chunk.ModuleIDs)
}

// loadsCoreEntry reports whether running the chunk runs the core entry,
// either because it holds it or because it imports a chunk that does.
func (chunk Chunk) loadsCoreEntry() bool {
	return chunk.containsCoreEntry() || anyCoreEntry(chunk.ImportedModuleIDs)
}

func anyCoreEntry(ids []string) bool {
	for _, id := range ids {
		if IsCoreEntry(id) {
			return true
		}
	}
	return false
}

// RenderChunk post-processes an output chunk that contains the editor core,
// or an entry chunk that imports it. It switches worker construction to
// module workers for ES module output and prepends the MonacoEnvironment shim
// to entry chunks. It reports false if the chunk was left alone.
func (p *Plugin) RenderChunk(host Host, code string, chunk Chunk, output OutputOptions) (string, bool, error) {
	if !p.entry.isSeen() {
		return "", false, nil
	}
	if p.config.WorkerPaths.Contains(chunk.FileName) {
		return "", false, nil
	}
	if !chunk.containsCoreEntry() && !(chunk.IsEntry && chunk.loadsCoreEntry()) {
		return "", false, nil
	}

	changed := false
	if output.isESM() || p.esm() {
		if rewritten, ok := rewriteWorkerConstructions(code, p.rewriter); ok {
			code = rewritten
			changed = true
		}
	}

	if chunk.IsEntry {
		environment, err := RenderEnvironment(p.pathPrefix(host, output), p.config.WorkerPaths)
		if err != nil {
			return "", false, err
		}
		code = environment + "\n" + code
		changed = true
	}

	if !changed {
		return "", false, nil
	}
	return code, true, nil
}

func (p *Plugin) esm() bool {
	return p.config.Options.ESM != nil && *p.config.Options.ESM
}

func (p *Plugin) pathPrefix(host Host, output OutputOptions) string {
	if p.config.Options.PathPrefix != "" {
		return p.config.Options.PathPrefix
	}
	if output.Dir == "" {
		host.Warn("output dir is missing, worker urls will not be prefixed")
		return ""
	}
	dir := identity.Slash(output.Dir)
	if !strings.HasPrefix(dir, "/") {
		return "/" + dir
	}
	return dir
}
