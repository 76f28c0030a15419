// Package monaco rewrites the monaco-editor module graph during bundling so
// that only the selected languages and features are bundled, worker entry
// points become separate chunks, and the page knows where to find them.
//
// The plugin does not depend on a particular bundler. Hosts call the hooks in
// order: Options, ResolveID, Load, Transform, and finally RenderChunk for
// every output chunk.
package monaco

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"monacobundle.dev/internal/identity"
	"monacobundle.dev/internal/log"
)

var logger log.Logger = log.New("monaco")

// Name identifies the plugin in host diagnostics.
const Name = "monaco"

const registerLanguageHelper = "vs/basic-languages/_.contribution"

// EmittedChunk asks the host to bundle ID as a separate output file named FileName.
type EmittedChunk struct {
	ID       string
	FileName string
}

// Host is what the plugin needs from the bundler.
type Host interface {
	EmitChunk(chunk EmittedChunk)
	Warn(message string)
}

type Plugin struct {
	config   Config
	rewriter WorkerRewriter

	emission emissionState
	entry    entryState
}

func New(config Config) *Plugin {
	return &Plugin{
		config:   config,
		rewriter: ParsingWorkerRewriter{},
	}
}

// SetWorkerRewriter replaces the rewriter used on worker call sites. It must
// be called before the first RenderChunk.
func (p *Plugin) SetWorkerRewriter(rewriter WorkerRewriter) {
	p.rewriter = rewriter
}

func (p *Plugin) Config() Config {
	return p.config
}

// ResolveID claims the feature aggregate ids and nothing else.
func (p *Plugin) ResolveID(importee string, importer string) (string, bool) {
	if IsWrapped(importee, FeaturesSuffix) {
		return importee, true
	}
	return "", false
}

// Load returns the source of a feature aggregate: one side-effect import per
// selected feature module.
func (p *Plugin) Load(id string) (string, bool) {
	if !IsWrapped(id, FeaturesSuffix) {
		return "", false
	}

	lines := make([]string, 0, len(p.config.FeaturePaths))
	for _, featurePath := range p.config.FeaturePaths {
		lines = append(lines, importStatement(p.config.ResolvePath(featurePath)))
	}
	return strings.Join(lines, "\n"), true
}

func importStatement(specifier string) string {
	quoted, _ := json.Marshal(specifier)
	return fmt.Sprintf("import %s;", quoted)
}

// Transform rewrites the editor's core entry module: it imports the feature
// aggregate and inlines the selected languages. Other modules are not handled.
func (p *Plugin) Transform(ctx context.Context, host Host, code string, id string) (string, bool, error) {
	if strings.HasPrefix(id, VirtualPrefix) {
		return "", false, nil
	}
	// other plugins may create virtual modules from the editor entry
	if !filepath.IsAbs(id) {
		return "", false, nil
	}
	if !IsCoreEntry(id) {
		return "", false, nil
	}

	p.entry.markSeen()
	p.emitWorkerChunks(host)

	languages, needsHelper, err := p.rewriteLanguages(ctx, filepath.Dir(id))
	if err != nil {
		return "", false, err
	}

	parts := []string{importStatement(Wrap(id, FeaturesSuffix)), code}
	if needsHelper {
		helper, err := p.rewriteHelper(filepath.Dir(id))
		if err != nil {
			return "", false, err
		}
		parts = append(parts, helper)
	}
	parts = append(parts, languages...)

	logger.Debug("Transformed editor entry", log.Ctx{
		"id":        id,
		"languages": len(languages),
		"helper":    needsHelper,
	})

	return strings.Join(parts, "\n"), true, nil
}

// emitWorkerChunks hands every worker to the host exactly once per plugin.
func (p *Plugin) emitWorkerChunks(host Host) {
	if !p.emission.begin() {
		return
	}

	for _, worker := range p.config.Workers {
		host.EmitChunk(EmittedChunk{
			ID:       p.config.ResolvePath(worker.Entry),
			FileName: p.config.WorkerPaths[worker.Label],
		})
	}
}

func (p *Plugin) rewriteLanguages(ctx context.Context, entryDir string) ([]string, bool, error) {
	sources := make([]string, len(p.config.LanguagePaths))
	usesHelper := make([]bool, len(p.config.LanguagePaths))

	group, ctx := errgroup.WithContext(ctx)
	for index, languagePath := range p.config.LanguagePaths {
		index, languagePath := index, languagePath
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			filename := p.config.ResolvePath(languagePath)
			buf, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("failed to read language module %s: %w", filename, err)
			}

			sources[index], usesHelper[index] = p.rewriteLanguage(string(buf), filename, entryDir)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, false, err
	}

	needsHelper := false
	for _, uses := range usesHelper {
		needsHelper = needsHelper || uses
	}
	return sources, needsHelper, nil
}

func (p *Plugin) rewriteLanguage(src string, filename string, entryDir string) (string, bool) {
	src = StripCoreSelfImport(src)
	src = StripFillerImport(src)
	src = StripCoreNamespaceImport(src)
	src = RenameModeAccessor(src, p.modeName(filename))
	src, usesHelper := StripRegisterLanguageImport(src)
	src = RetargetImports(src, filepath.Dir(filename), entryDir)
	return src, usesHelper
}

func (p *Plugin) rewriteHelper(entryDir string) (string, error) {
	filename := p.config.ResolvePath(registerLanguageHelper)
	buf, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}

	src := StripCoreSelfImport(string(buf))
	src = StripFillerImport(src)
	src = StripCoreNamespaceImport(src)
	return RetargetImports(src, filepath.Dir(filename), entryDir), nil
}

// modeName derives a per-language identifier from the module's directory
// relative to the esm root, e.g. vs_basicLanguages_css.
func (p *Plugin) modeName(filename string) string {
	dir := filepath.Dir(filename)
	if rel, err := filepath.Rel(filepath.Join(p.config.LibraryRoot, "esm"), dir); err == nil {
		dir = rel
	}
	return identity.MakeLegal(identity.Slash(dir))
}
