package metadata

import (
	"fmt"
	"os"
	"path/filepath"

	"monacobundle.dev/internal/config"
	"monacobundle.dev/internal/log"
)

var logger log.Logger = log.New("metadata")

// Resolve loads the feature and language tables for the library installed at
// libraryRoot. Libraries that ship esm/metadata.js describe themselves, older
// ones, and ones whose metadata.js cannot be read or evaluated, are matched
// against the embedded tables by version.
func Resolve(libraryRoot string) (Metadata, error) {
	meta, err := loadLive(libraryRoot)
	if err == nil {
		logger.Debug("Loaded live metadata", log.Ctx{
			"root":      libraryRoot,
			"features":  len(meta.Features),
			"languages": len(meta.Languages),
		})
		return meta, nil
	}

	// Whatever went wrong with the library's own description, the embedded
	// tables may still cover its version.
	logger.Debug("Falling back to legacy tables", log.Ctx{
		"root":   libraryRoot,
		"reason": err.Error(),
	})

	return loadLegacy(libraryRoot)
}

func loadLive(libraryRoot string) (Metadata, error) {
	filename := filepath.Join(libraryRoot, "esm", "metadata.js")

	buf, err := os.ReadFile(filename)
	if err != nil {
		return Metadata{}, err
	}

	script, err := toCommonJS(filename, string(buf))
	if err != nil {
		return Metadata{}, err
	}
	exports, err := evalCommonJS(filename, script)
	if err != nil {
		return Metadata{}, err
	}

	featureItems, ok := exportedArray(exports, "features")
	if !ok {
		return Metadata{}, &MetadataShapeError{Filename: filename, Reason: "`features` is not an array"}
	}
	languageItems, ok := exportedArray(exports, "languages")
	if !ok {
		return Metadata{}, &MetadataShapeError{Filename: filename, Reason: "`languages` is not an array"}
	}

	features, err := toFeatures(featureItems)
	if err != nil {
		return Metadata{}, &MetadataShapeError{Filename: filename, Reason: err.Error()}
	}
	languages, err := toLanguages(languageItems)
	if err != nil {
		return Metadata{}, &MetadataShapeError{Filename: filename, Reason: err.Error()}
	}

	return Metadata{
		Features:  features,
		Languages: languages,
		Source:    SourceLive,
	}, nil
}

func loadLegacy(libraryRoot string) (Metadata, error) {
	packageJson, err := config.LoadPackageJson(filepath.Join(libraryRoot, "package.json"))
	if err != nil {
		return Metadata{}, err
	}

	bucket, err := matchBucket(packageJson.Version)
	if err != nil {
		return Metadata{}, err
	}

	features, languages, err := loadBucket(bucket)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to load tables for monaco-editor@%s: %w", packageJson.Version, err)
	}

	return Metadata{
		Features:  features,
		Languages: languages,
		Source:    SourceLegacy,
		Version:   packageJson.Version,
		Bucket:    bucket,
	}, nil
}

// Validate checks that every entry and worker module of the selected
// descriptors exists under <root>/esm. Live metadata always describes the
// installed files, so only legacy tables are checked.
func (meta Metadata) Validate(libraryRoot string, features []string, languages []string) error {
	if meta.Source != SourceLegacy {
		return nil
	}

	var modules []string
	featuresByLabel := meta.FeaturesByLabel()
	for _, label := range features {
		if feature, ok := featuresByLabel[label]; ok {
			modules = append(modules, feature.Entry...)
		}
	}
	languagesByLabel := meta.LanguagesByLabel()
	for _, label := range languages {
		language, ok := languagesByLabel[label]
		if !ok {
			continue
		}
		modules = append(modules, language.Entry...)
		if language.Worker != nil {
			modules = append(modules, language.Worker.Entry)
		}
	}

	var missing []string
	seen := make(map[string]bool, len(modules))
	for _, module := range modules {
		if seen[module] {
			continue
		}
		seen[module] = true

		filename := filepath.Join(libraryRoot, "esm", filepath.FromSlash(module)+".js")
		if _, err := os.Stat(filename); err != nil {
			missing = append(missing, module)
		}
	}

	if len(missing) > 0 {
		return &MissingModuleError{Root: libraryRoot, Modules: missing}
	}
	return nil
}
