package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/pflag"

	"monacobundle.dev/internal/config"
)

type VersionCommand struct{}

func (c *VersionCommand) Name() string {
	return "version"
}

func (c *VersionCommand) Description() string {
	return "Print the version info of monacobundle and the monaco-editor it finds"
}

func (c *VersionCommand) Parse(flagSet *pflag.FlagSet, args []string) error {
	return flagSet.Parse(args)
}

func (c *VersionCommand) Run() error {
	versionInfo := map[string]string{
		"version": config.GetVersion(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}

	if libraryRoot, err := config.GetLibraryRoot(); err != nil {
		fmt.Fprintf(os.Stderr, "WARN: %s\n", err)
	} else {
		packageJson, err := config.LoadPackageJson(filepath.Join(libraryRoot, "package.json"))
		if err != nil {
			return fmt.Errorf("failed to read monaco-editor version: %w", err)
		}
		versionInfo["monaco-editor"] = packageJson.Version
		versionInfo["monaco-editor-path"] = libraryRoot
	}

	buf, err := json.MarshalIndent(versionInfo, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to marshal version info: %w", err)
	}

	fmt.Printf("%s\n", buf)
	return nil
}
