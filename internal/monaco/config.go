package monaco

import (
	"path"
	"path/filepath"
	"regexp"

	"monacobundle.dev/internal/metadata"
	"monacobundle.dev/internal/selection"
)

// LibraryPackage is the npm package wrapped by this plugin.
const LibraryPackage = "monaco-editor"

// CoreEntryPattern matches the library modules applications import to get the
// editor API.
var CoreEntryPattern = regexp.MustCompile(`monaco-editor[/\\]esm[/\\]vs[/\\]editor[/\\]editor.(api|main)`)

// IsCoreEntry reports whether id is one of the library's public entry modules.
func IsCoreEntry(id string) bool {
	return CoreEntryPattern.MatchString(id)
}

type Options struct {
	Languages  []string
	Features   []string
	ESM        *bool
	PathPrefix string
}

// WorkerDescriptor describes one web worker the editor may start.
type WorkerDescriptor struct {
	// Label is what the editor passes to getWorkerUrl.
	Label string
	ID    string
	Entry string
}

// WorkerPathTable maps a worker label to the output path of its bundle.
type WorkerPathTable map[string]string

// Contains reports whether fileName is the output path of a worker.
func (table WorkerPathTable) Contains(fileName string) bool {
	for _, workerPath := range table {
		if workerPath == fileName {
			return true
		}
	}
	return false
}

var editorModule = WorkerDescriptor{
	Label: "editorWorkerService",
	ID:    "vs/editor/editor",
	Entry: "vs/editor/editor.worker",
}

// Config is everything the plugin needs to know about the selected languages,
// features, and workers. It is not modified after NewConfig returns.
type Config struct {
	LibraryRoot string
	Options     Options

	Languages []string
	Features  []string

	// Module paths relative to <root>/esm, without extension
	LanguagePaths []string
	FeaturePaths  []string

	Workers     []WorkerDescriptor
	WorkerPaths WorkerPathTable
}

// NewConfig resolves the user's selection against the library's metadata.
func NewConfig(options Options, meta metadata.Metadata, libraryRoot string) (Config, error) {
	features := selection.Features(meta.FeatureLabels(), options.Features)
	languages := selection.Languages(meta.LanguageLabels(), options.Languages)

	if err := meta.Validate(libraryRoot, features, languages); err != nil {
		return Config{}, err
	}

	cfg := Config{
		LibraryRoot: libraryRoot,
		Options:     options,
		Languages:   languages,
		Features:    features,
		WorkerPaths: WorkerPathTable{},
	}

	var workers []WorkerDescriptor
	workers = append(workers, editorModule)

	languagesByLabel := meta.LanguagesByLabel()
	for _, label := range languages {
		language, ok := languagesByLabel[label]
		if !ok {
			continue
		}
		cfg.LanguagePaths = append(cfg.LanguagePaths, language.Entry...)
		if language.Worker != nil {
			workers = append(workers, WorkerDescriptor{Label: language.Label, ID: language.Worker.ID, Entry: language.Worker.Entry})
		}
	}

	featuresByLabel := meta.FeaturesByLabel()
	for _, label := range features {
		feature, ok := featuresByLabel[label]
		if !ok {
			continue
		}
		cfg.FeaturePaths = append(cfg.FeaturePaths, feature.Entry...)
		if feature.Worker != nil {
			workers = append(workers, WorkerDescriptor{Label: feature.Label, ID: feature.Worker.ID, Entry: feature.Worker.Entry})
		}
	}

	for _, worker := range workers {
		if _, ok := cfg.WorkerPaths[worker.Label]; ok {
			continue
		}
		cfg.Workers = append(cfg.Workers, worker)
		cfg.WorkerPaths[worker.Label] = RelativePath(worker.Entry)
	}

	return cfg, nil
}

// RelativePath is the package-relative path of a module, e.g.
// monaco-editor/esm/vs/editor/editor.worker.js
func RelativePath(modulePath string) string {
	return path.Join(LibraryPackage, "esm", modulePath+".js")
}

// ResolvePath returns the absolute path of a module inside the library.
func (cfg Config) ResolvePath(modulePath string) string {
	return filepath.Join(cfg.LibraryRoot, "esm", filepath.FromSlash(modulePath)+".js")
}
