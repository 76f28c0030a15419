package bundle

import (
	"context"
	"fmt"

	es "github.com/evanw/esbuild/pkg/api"

	"monacobundle.dev/internal/log"
)

// Watch builds the entry points and rebuilds them whenever esbuild sees one
// of their inputs change, until ctx is done. onRebuild is called after every
// build, including the first one.
func Watch(ctx context.Context, input Input, onRebuild func(Result, error)) error {
	b, err := newBundler(input)
	if err != nil {
		return err
	}

	options := b.mainOptions(ctx)
	options.Plugins = append(options.Plugins, es.Plugin{
		Name: "monaco-rebuild",
		Setup: func(build es.PluginBuild) {
			build.OnEnd(func(result *es.BuildResult) (es.OnEndResult, error) {
				output, err := b.finish(*result)
				if err != nil {
					logger.Err(err, "Rebuild failed", log.Ctx{})
				} else {
					logger.Info("Rebuilt", log.Ctx{
						"files":    len(output.Files),
						"warnings": len(output.Warnings),
					})
				}

				onRebuild(output, err)
				return es.OnEndResult{}, nil
			})
		},
	})

	esContext, ctxErr := es.Context(options)
	if ctxErr != nil {
		return fmt.Errorf("failed to create build context: %w", BuildError(ctxErr.Errors))
	}
	defer esContext.Dispose()

	if err := esContext.Watch(es.WatchOptions{}); err != nil {
		return fmt.Errorf("failed to watch: %w", err)
	}

	<-ctx.Done()
	return nil
}
