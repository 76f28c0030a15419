package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"monacobundle.dev/internal/metadata"
)

type ListCommand struct {
	json bool
}

func (cmd *ListCommand) Name() string {
	return "list"
}

func (cmd *ListCommand) Description() string {
	return "List the languages and features the installed monaco-editor provides"
}

func (cmd *ListCommand) Parse(flagSet *pflag.FlagSet, args []string) error {
	flagSet.BoolVar(&cmd.json, "json", false, "Print the tables as JSON")
	return flagSet.Parse(args)
}

type listOutput struct {
	Source    metadata.Source               `json:"source"`
	Bucket    string                        `json:"bucket,omitempty"`
	Version   string                        `json:"version,omitempty"`
	Languages []metadata.LanguageDescriptor `json:"languages"`
	Features  []metadata.FeatureDescriptor  `json:"features"`
}

func (cmd *ListCommand) Run() error {
	_, meta, err := loadMetadata()
	if err != nil {
		return err
	}

	if cmd.json {
		buf, err := json.MarshalIndent(listOutput{
			Source:    meta.Source,
			Bucket:    meta.Bucket,
			Version:   meta.Version,
			Languages: meta.Languages,
			Features:  meta.Features,
		}, "", "\t")
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		fmt.Printf("%s\n", buf)
		return nil
	}

	fmt.Printf("Metadata from %s\n\n", meta.String())

	out := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(out, "LANGUAGE\tWORKER\n")
	for _, language := range meta.Languages {
		fmt.Fprintf(out, "%s\t%s\n", language.Label, workerLabel(language.Worker))
	}
	fmt.Fprintf(out, "\nFEATURE\tWORKER\n")
	for _, feature := range meta.Features {
		fmt.Fprintf(out, "%s\t%s\n", feature.Label, workerLabel(feature.Worker))
	}

	return out.Flush()
}

func workerLabel(worker *metadata.WorkerEntry) string {
	if worker == nil {
		return "-"
	}
	return strings.TrimPrefix(worker.Entry, "vs/")
}
