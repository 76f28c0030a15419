package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"monacobundle.dev/internal/config"
	"monacobundle.dev/internal/log"
	"monacobundle.dev/internal/metadata"
	"monacobundle.dev/internal/monaco"
	"monacobundle.dev/internal/selection"
)

var logger log.Logger = log.New("cli")

// pluginFlags are the plugin options shared by build and serve. Anything set
// on the command line wins over monaco.config.json.
type pluginFlags struct {
	flagSet *pflag.FlagSet

	languages  []string
	features   []string
	esm        bool
	pathPrefix string
	verbose    bool
}

func (flags *pluginFlags) register(flagSet *pflag.FlagSet) {
	flags.flagSet = flagSet

	flagSet.StringSliceVar(&flags.languages, "languages", nil, "Languages to include (default: all)")
	flagSet.StringSliceVar(&flags.features, "features", nil, "Features to include, or exclude with a leading '!' (default: all)")
	flagSet.BoolVar(&flags.esm, "esm", false, "Construct workers with { type: \"module\" } regardless of the output format")
	flagSet.StringVar(&flags.pathPrefix, "path-prefix", "", "URL prefix for worker scripts (default: /<outdir>)")
	flagSet.BoolVarP(&flags.verbose, "verbose", "v", false, "Print debug logs")
}

func (flags *pluginFlags) options() (monaco.Options, error) {
	log.SetVerbose(flags.verbose)

	fileOptions, err := config.LoadProjectOptions()
	if err != nil {
		return monaco.Options{}, err
	}

	options := monaco.Options{
		Languages:  fileOptions.Languages,
		Features:   fileOptions.Features,
		ESM:        fileOptions.ESM,
		PathPrefix: fileOptions.PathPrefix,
	}

	if flags.flagSet.Changed("languages") {
		options.Languages = flags.languages
	}
	if flags.flagSet.Changed("features") {
		options.Features = flags.features
	}
	if flags.flagSet.Changed("esm") {
		esm := flags.esm
		options.ESM = &esm
	}
	if flags.flagSet.Changed("path-prefix") {
		options.PathPrefix = flags.pathPrefix
	}

	return options, nil
}

// loadMetadata finds the installed library and its language/feature tables.
func loadMetadata() (string, metadata.Metadata, error) {
	libraryRoot, err := config.GetLibraryRoot()
	if err != nil {
		return "", metadata.Metadata{}, err
	}

	meta, err := metadata.Resolve(libraryRoot)
	if err != nil {
		return "", metadata.Metadata{}, err
	}

	logger.Debug("Loaded monaco-editor metadata", log.Ctx{
		"libraryRoot": libraryRoot,
		"source":      meta.String(),
		"languages":   len(meta.Languages),
		"features":    len(meta.Features),
	})

	return libraryRoot, meta, nil
}

func warnUnknown(kind string, known []string, selected []string) {
	for _, label := range selection.Unknown(known, selected) {
		logger.Warn(fmt.Sprintf("Unknown %s '%s' will be ignored", kind, label), log.Ctx{
			"known": known,
		})
	}
}

// newPlugin builds the engine for the flags and the project's config file.
func (flags *pluginFlags) newPlugin() (*monaco.Plugin, error) {
	options, err := flags.options()
	if err != nil {
		return nil, err
	}

	libraryRoot, meta, err := loadMetadata()
	if err != nil {
		return nil, err
	}

	warnUnknown("language", meta.LanguageLabels(), options.Languages)
	warnUnknown("feature", meta.FeatureLabels(), options.Features)

	cfg, err := monaco.NewConfig(options, meta, libraryRoot)
	if err != nil {
		return nil, err
	}

	return monaco.New(cfg), nil
}
