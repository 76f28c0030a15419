package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"

	"monacobundle.dev/internal/bundle"
	"monacobundle.dev/internal/config"
)

// bundleFlags are the bundler options shared by build and serve.
type bundleFlags struct {
	pluginFlags

	entryPoints []string
	outdir      string
	format      string
	minify      bool
	sourcemap   bool
}

func (flags *bundleFlags) register(flagSet *pflag.FlagSet) {
	flags.pluginFlags.register(flagSet)

	flagSet.StringVarP(&flags.outdir, "outdir", "o", "dist", "Output directory, relative to the project")
	flagSet.StringVar(&flags.format, "format", bundle.FormatESM, "Output format, esm or iife")
	flagSet.BoolVar(&flags.minify, "minify", false, "Minify the output")
	flagSet.BoolVar(&flags.sourcemap, "sourcemap", false, "Emit source maps")
}

func (flags *bundleFlags) parse(flagSet *pflag.FlagSet, args []string) error {
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	flags.entryPoints = flagSet.Args()
	if len(flags.entryPoints) == 0 {
		return fmt.Errorf("at least one entry point is required")
	}
	if flags.format != bundle.FormatESM && flags.format != bundle.FormatIIFE {
		return fmt.Errorf("invalid format '%s', expected %s or %s", flags.format, bundle.FormatESM, bundle.FormatIIFE)
	}

	return nil
}

func (flags *bundleFlags) input(write bool) (bundle.Input, error) {
	plugin, err := flags.newPlugin()
	if err != nil {
		return bundle.Input{}, err
	}

	projectPath, err := config.GetProjectPath()
	if err != nil {
		return bundle.Input{}, fmt.Errorf("failed to get project path: %w", err)
	}

	return bundle.Input{
		EntryPoints: flags.entryPoints,
		Outdir:      flags.outdir,
		WorkingDir:  projectPath,
		Format:      flags.format,
		Minify:      flags.minify,
		Sourcemap:   flags.sourcemap,
		Write:       write,
		Plugin:      plugin,
	}, nil
}

type BuildCommand struct {
	bundleFlags
}

func (cmd *BuildCommand) Name() string {
	return "build"
}

func (cmd *BuildCommand) Description() string {
	return "Bundle entry points together with the selected monaco-editor languages and features"
}

func (cmd *BuildCommand) ShortUsage() string {
	return "build [options] <entry>..."
}

func (cmd *BuildCommand) Parse(flagSet *pflag.FlagSet, args []string) error {
	cmd.register(flagSet)
	return cmd.parse(flagSet, args)
}

func (cmd *BuildCommand) Run() error {
	input, err := cmd.input(true)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	result, err := bundle.Build(ctx, input)
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "WARN: %s\n", warning)
	}

	for _, file := range result.Files {
		name, err := filepath.Rel(input.WorkingDir, file.Path)
		if err != nil {
			name = file.Path
		}
		fmt.Printf("%s\t%d bytes\n", name, len(file.Contents))
	}

	return nil
}
