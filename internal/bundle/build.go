// Package bundle runs esbuild with the monaco plugin: it bundles the
// application, bundles the worker chunks the plugin emitted, and
// post-processes the output.
package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	es "github.com/evanw/esbuild/pkg/api"

	"monacobundle.dev/internal/identity"
	"monacobundle.dev/internal/log"
	"monacobundle.dev/internal/monaco"
)

var logger log.Logger = log.New("bundle")

const (
	FormatESM  = "esm"
	FormatIIFE = "iife"
)

type Input struct {
	EntryPoints []string
	// Outdir is relative to WorkingDir. It is also what worker urls are
	// prefixed with when the plugin has no path prefix.
	Outdir string
	// WorkingDir defaults to the current directory
	WorkingDir string
	Format     string
	Minify     bool
	Sourcemap  bool
	// Write puts the output files on disk
	Write bool

	Plugin        *monaco.Plugin
	ModuleContext monaco.ModuleContext
}

type OutputFile struct {
	// Path is absolute
	Path     string
	Contents []byte
}

type Result struct {
	Files    []OutputFile
	Warnings []string
	// Workers that were bundled as separate files
	Workers []monaco.EmittedChunk
	// VirtualModules counts the feature aggregate lookups of the main build
	VirtualModules VirtualModuleStats
}

// File finds an output file by its path relative to the output directory.
func (result Result) File(outdir string, name string) (OutputFile, bool) {
	for _, file := range result.Files {
		if rel, err := filepath.Rel(outdir, file.Path); err == nil && identity.Slash(rel) == name {
			return file, true
		}
	}
	return OutputFile{}, false
}

type bundler struct {
	input         Input
	workingDir    string
	host          *chunkHost
	moduleContext monaco.ModuleContext
}

func newBundler(input Input) (*bundler, error) {
	if input.Plugin == nil {
		return nil, fmt.Errorf("no plugin given")
	}
	if len(input.EntryPoints) == 0 {
		return nil, fmt.Errorf("no entry points given")
	}
	if input.Outdir == "" {
		input.Outdir = "dist"
	}
	if input.Format == "" {
		input.Format = FormatESM
	}
	if input.Format != FormatESM && input.Format != FormatIIFE {
		return nil, fmt.Errorf("unsupported format '%s', expected %s or %s", input.Format, FormatESM, FormatIIFE)
	}

	workingDir := input.WorkingDir
	if workingDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get cwd: %w", err)
		}
		workingDir = cwd
	}
	workingDir, err := filepath.Abs(workingDir)
	if err != nil {
		return nil, err
	}

	inputOptions := input.Plugin.Options(monaco.InputOptions{ModuleContext: input.ModuleContext})

	return &bundler{
		input:         input,
		workingDir:    workingDir,
		host:          &chunkHost{},
		moduleContext: inputOptions.ModuleContext,
	}, nil
}

func (b *bundler) isESM() bool {
	return b.input.Format == FormatESM
}

func (b *bundler) outdir() string {
	return filepath.Join(b.workingDir, b.input.Outdir)
}

func (b *bundler) commonOptions() es.BuildOptions {
	options := es.BuildOptions{
		AbsWorkingDir:     b.workingDir,
		Outdir:            b.outdir(),
		Bundle:            true,
		Platform:          es.PlatformBrowser,
		Target:            es.ES2017,
		Write:             false,
		Metafile:          true,
		LogLevel:          es.LogLevelSilent,
		MinifyWhitespace:  b.input.Minify,
		MinifyIdentifiers: b.input.Minify,
		MinifySyntax:      b.input.Minify,
		Loader: map[string]es.Loader{
			".ttf": es.LoaderFile,
		},
	}
	if b.input.Sourcemap {
		options.Sourcemap = es.SourceMapLinked
	}
	return options
}

func (b *bundler) mainOptions(ctx context.Context) es.BuildOptions {
	options := b.commonOptions()
	options.EntryPoints = b.input.EntryPoints
	options.Plugins = []es.Plugin{Plugin(ctx, b.input.Plugin, b.host, b.moduleContext)}
	if b.isESM() {
		options.Format = es.FormatESModule
		options.Splitting = true
	} else {
		options.Format = es.FormatIIFE
	}
	return options
}

func (b *bundler) workerOptions(workers []monaco.EmittedChunk) es.BuildOptions {
	options := b.commonOptions()
	for _, worker := range workers {
		options.EntryPointsAdvanced = append(options.EntryPointsAdvanced, es.EntryPoint{
			InputPath:  worker.ID,
			OutputPath: strings.TrimSuffix(filepath.FromSlash(worker.FileName), ".js"),
		})
	}
	options.Plugins = []es.Plugin{ModuleContextPlugin(b.moduleContext)}

	esm := b.input.Plugin.Config().Options.ESM
	if b.isESM() || (esm != nil && *esm) {
		options.Format = es.FormatESModule
	} else {
		options.Format = es.FormatIIFE
	}
	return options
}

// Build bundles the entry points once.
func Build(ctx context.Context, input Input) (Result, error) {
	b, err := newBundler(input)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	result := es.Build(b.mainOptions(ctx))
	output, err := b.finish(result)
	if err != nil {
		return Result{}, err
	}

	logger.Debug("Built bundle", log.Ctx{
		"entryPoints": input.EntryPoints,
		"files":       len(output.Files),
		"workers":     len(output.Workers),
		"duration":    time.Since(start).String(),
	})
	return output, nil
}

// finish takes the result of the main build through the worker build,
// chunk post-processing, and writing.
func (b *bundler) finish(result es.BuildResult) (Result, error) {
	virtual := b.host.drainVirtual()
	if len(result.Errors) > 0 {
		return Result{}, BuildError(result.Errors)
	}

	output := Result{
		Warnings:       formatWarnings(result.Warnings),
		VirtualModules: virtual,
	}

	files, err := b.render(result)
	if err != nil {
		return Result{}, err
	}
	output.Files = append(output.Files, files...)

	workers := b.host.emittedChunks()
	if len(workers) > 0 {
		workerResult := es.Build(b.workerOptions(workers))
		if len(workerResult.Errors) > 0 {
			return Result{}, fmt.Errorf("failed to build workers: %w", BuildError(workerResult.Errors))
		}
		output.Warnings = append(output.Warnings, formatWarnings(workerResult.Warnings)...)

		files, err := b.render(workerResult)
		if err != nil {
			return Result{}, err
		}
		output.Files = append(output.Files, files...)
		output.Workers = workers
	}
	output.Warnings = append(output.Warnings, b.host.drainWarnings()...)

	if b.input.Write {
		if err := writeFiles(output.Files); err != nil {
			return Result{}, err
		}
	}
	return output, nil
}

type metafileImport struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

type metafileOutput struct {
	EntryPoint string                     `json:"entryPoint"`
	Inputs     map[string]json.RawMessage `json:"inputs"`
	Imports    []metafileImport           `json:"imports"`
}

type metafile struct {
	Outputs map[string]metafileOutput `json:"outputs"`
}

// staticImports lists the outputs that loading the output at key loads
// first: the chunks it imports statically, and what those import in turn.
func (meta metafile) staticImports(key string) []string {
	seen := map[string]bool{key: true}
	queue := []string{key}

	var reached []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, imported := range meta.Outputs[current].Imports {
			if imported.Kind != "import-statement" || seen[imported.Path] {
				continue
			}
			if _, ok := meta.Outputs[imported.Path]; !ok {
				continue
			}
			seen[imported.Path] = true
			reached = append(reached, imported.Path)
			queue = append(queue, imported.Path)
		}
	}
	return reached
}

// render runs the plugin's chunk post-processing over every JavaScript output.
func (b *bundler) render(result es.BuildResult) ([]OutputFile, error) {
	var meta metafile
	if err := json.Unmarshal([]byte(result.Metafile), &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metafile: %w", err)
	}

	outputOptions := monaco.OutputOptions{Format: b.input.Format, Dir: b.input.Outdir}

	files := make([]OutputFile, 0, len(result.OutputFiles))
	for _, file := range result.OutputFiles {
		output := OutputFile{Path: file.Path, Contents: file.Contents}

		rel, err := filepath.Rel(b.workingDir, file.Path)
		if err != nil || !strings.HasSuffix(file.Path, ".js") {
			files = append(files, output)
			continue
		}
		key := identity.Slash(rel)
		chunkMeta, ok := meta.Outputs[key]
		if !ok {
			files = append(files, output)
			continue
		}

		fileName, err := filepath.Rel(b.outdir(), file.Path)
		if err != nil {
			return nil, err
		}

		chunk := monaco.Chunk{
			FileName:  identity.Slash(fileName),
			IsEntry:   chunkMeta.EntryPoint != "",
			ModuleIDs: b.moduleIDs(chunkMeta),
		}
		if chunk.IsEntry {
			// With splitting, the core entry may live in a chunk shared by
			// several entries.
			for _, imported := range meta.staticImports(key) {
				chunk.ImportedModuleIDs = append(chunk.ImportedModuleIDs, b.moduleIDs(meta.Outputs[imported])...)
			}
		}
		code, changed, err := b.input.Plugin.RenderChunk(b.host, string(file.Contents), chunk, outputOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", chunk.FileName, err)
		}
		if changed {
			output.Contents = []byte(code)
		}
		files = append(files, output)
	}
	return files, nil
}

func (b *bundler) moduleIDs(chunkMeta metafileOutput) []string {
	ids := make([]string, 0, len(chunkMeta.Inputs))
	for input := range chunkMeta.Inputs {
		if namespaceEnd := strings.Index(input, ":"); namespaceEnd > 1 && !filepath.IsAbs(input) && !strings.Contains(input[:namespaceEnd], "/") {
			// plugin namespaces, e.g. monaco-virtual:<id>
			ids = append(ids, input[namespaceEnd+1:])
			continue
		}
		ids = append(ids, filepath.Join(b.workingDir, filepath.FromSlash(input)))
	}
	return ids
}

func writeFiles(files []OutputFile) error {
	for _, file := range files {
		if err := os.MkdirAll(filepath.Dir(file.Path), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(file.Path), err)
		}
		if err := os.WriteFile(file.Path, file.Contents, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}
	return nil
}
