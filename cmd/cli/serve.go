package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"monacobundle.dev/internal/bundle"
	"monacobundle.dev/internal/log"
	"monacobundle.dev/internal/pubsub"
	"monacobundle.dev/internal/server"
)

type ServeCommand struct {
	bundleFlags

	port        int
	bindAddress string
}

func (cmd *ServeCommand) Name() string {
	return "serve"
}

func (cmd *ServeCommand) Description() string {
	return "Build, rebuild on change, and serve the project with live reload"
}

func (cmd *ServeCommand) ShortUsage() string {
	return "serve [options] <entry>..."
}

func (cmd *ServeCommand) Parse(flagSet *pflag.FlagSet, args []string) error {
	cmd.register(flagSet)
	flagSet.IntVar(&cmd.port, "port", 9010, "The port to listen on")
	flagSet.StringVar(&cmd.bindAddress, "bind", "127.0.0.1", "The address to bind to")

	if err := cmd.parse(flagSet, args); err != nil {
		return err
	}
	if cmd.port < 1 || cmd.port > 65535 {
		return fmt.Errorf("invalid port number: %d", cmd.port)
	}

	return nil
}

// buildEvent turns a rebuild into what the reload stream sends to pages.
func buildEvent(workingDir string, result bundle.Result, err error) pubsub.BuildEvent {
	if err != nil {
		event := pubsub.BuildEvent{Kind: "error"}
		var buildErr bundle.BuildError
		if errors.As(err, &buildErr) {
			event.Errors = buildErr.Messages()
		} else {
			event.Errors = []string{err.Error()}
		}
		return event
	}

	event := pubsub.BuildEvent{Kind: "rebuild", Warnings: result.Warnings}
	for _, file := range result.Files {
		name, err := filepath.Rel(workingDir, file.Path)
		if err != nil {
			name = file.Path
		}
		event.Files = append(event.Files, filepath.ToSlash(name))
	}
	return event
}

func (cmd *ServeCommand) Run() error {
	input, err := cmd.input(true)
	if err != nil {
		return err
	}

	registry, err := pubsub.NewRegistry()
	if err != nil {
		return err
	}

	topic, err := registry.CreateTopic(pubsub.BuildTopic(cmd.outdir))
	if err != nil {
		return err
	}
	defer topic.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	preview := &server.Server{
		BindAddress: cmd.bindAddress,
		Port:        cmd.port,
		Root:        input.WorkingDir,
		Outdir:      cmd.outdir,
		Registry:    registry,
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return bundle.Watch(ctx, input, func(result bundle.Result, err error) {
			if err := topic.PublishJson(buildEvent(input.WorkingDir, result, err)); err != nil {
				logger.Debug("Dropped build event", log.Ctx{"error": err.Error()})
			}
		})
	})
	group.Go(func() error {
		return preview.Run(ctx)
	})

	fmt.Fprintf(os.Stderr, "Add <script src=\"%s\"></script> to your page to reload on rebuild\n", server.ClientRoute)

	return group.Wait()
}
