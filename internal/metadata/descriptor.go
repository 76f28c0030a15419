package metadata

import "fmt"

type Source string

const (
	// SourceLive means the tables were read from the installed library's own metadata module.
	SourceLive Source = "live"
	// SourceLegacy means the tables came from the copies embedded in this binary.
	SourceLegacy Source = "legacy"
)

// Entry is one or more module paths relative to the library's esm directory,
// without the .js extension.
type Entry []string

type WorkerEntry struct {
	ID    string `json:"id"`
	Entry string `json:"entry"`
}

type FeatureDescriptor struct {
	Label  string       `json:"label"`
	Entry  Entry        `json:"entry"`
	Worker *WorkerEntry `json:"worker,omitempty"`
}

type LanguageDescriptor struct {
	Label  string       `json:"label"`
	Entry  Entry        `json:"entry"`
	Worker *WorkerEntry `json:"worker,omitempty"`
}

type Metadata struct {
	Features  []FeatureDescriptor
	Languages []LanguageDescriptor

	Source Source
	// Version of the library, only set for legacy tables
	Version string
	// Bucket is the version range whose tables were used, only set for legacy tables
	Bucket string
}

func (meta Metadata) FeatureLabels() []string {
	labels := make([]string, 0, len(meta.Features))
	for _, feature := range meta.Features {
		labels = append(labels, feature.Label)
	}
	return labels
}

func (meta Metadata) LanguageLabels() []string {
	labels := make([]string, 0, len(meta.Languages))
	for _, language := range meta.Languages {
		labels = append(labels, language.Label)
	}
	return labels
}

// FeaturesByLabel indexes the features table. A duplicated label keeps its
// last descriptor.
func (meta Metadata) FeaturesByLabel() map[string]FeatureDescriptor {
	byLabel := make(map[string]FeatureDescriptor, len(meta.Features))
	for _, feature := range meta.Features {
		byLabel[feature.Label] = feature
	}
	return byLabel
}

func (meta Metadata) LanguagesByLabel() map[string]LanguageDescriptor {
	byLabel := make(map[string]LanguageDescriptor, len(meta.Languages))
	for _, language := range meta.Languages {
		byLabel[language.Label] = language
	}
	return byLabel
}

func (meta Metadata) String() string {
	if meta.Source == SourceLegacy {
		return fmt.Sprintf("legacy tables %s (monaco-editor@%s)", meta.Bucket, meta.Version)
	}
	return "esm/metadata.js"
}
