package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	es "github.com/evanw/esbuild/pkg/api"

	"monacobundle.dev/internal/monaco"
)

// Namespace holds the modules that only exist in the plugin.
const Namespace = "monaco-virtual"

var (
	featuresFilter = "^" + regexp.QuoteMeta(monaco.VirtualPrefix) + ".*" + regexp.QuoteMeta(monaco.FeaturesSuffix) + "$"
	libraryFilter  = `node_modules[/\\]monaco-editor[/\\].*\.js$`

	helperThisPattern = regexp.MustCompile(`\(this && this\.`)
)

// applyModuleContext replaces the `this` that TypeScript helpers use to find
// themselves at the top level of a module.
func applyModuleContext(moduleContext monaco.ModuleContext, id string, code string) string {
	if moduleContext == nil {
		return code
	}
	value, ok := moduleContext.Context(id)
	if !ok || value == "" || value == "this" {
		return code
	}
	return helperThisPattern.ReplaceAllLiteralString(code, "("+value+" && "+value+".")
}

// Plugin adapts the plugin's hooks to esbuild. The module context applies to
// every library file esbuild loads.
func Plugin(ctx context.Context, plugin *monaco.Plugin, host monaco.Host, moduleContext monaco.ModuleContext) es.Plugin {
	recorder, _ := host.(virtualRecorder)

	return es.Plugin{
		Name: monaco.Name,
		Setup: func(build es.PluginBuild) {
			build.OnResolve(es.OnResolveOptions{Filter: featuresFilter}, func(args es.OnResolveArgs) (es.OnResolveResult, error) {
				if recorder != nil {
					recorder.recordResolve()
				}
				id, ok := plugin.ResolveID(args.Path, args.Importer)
				if !ok {
					return es.OnResolveResult{}, nil
				}

				return es.OnResolveResult{
					Path:      id,
					Namespace: Namespace,
				}, nil
			})

			build.OnLoad(es.OnLoadOptions{Filter: ".*", Namespace: Namespace}, func(args es.OnLoadArgs) (es.OnLoadResult, error) {
				if recorder != nil {
					recorder.recordLoad()
				}
				code, ok := plugin.Load(args.Path)
				if !ok {
					return es.OnLoadResult{}, fmt.Errorf("unknown virtual module %q", strings.TrimPrefix(args.Path, monaco.VirtualPrefix))
				}

				return es.OnLoadResult{
					Contents:   &code,
					ResolveDir: plugin.Config().LibraryRoot,
					Loader:     es.LoaderJS,
				}, nil
			})

			build.OnLoad(es.OnLoadOptions{Filter: monaco.CoreEntryPattern.String(), Namespace: "file"}, func(args es.OnLoadArgs) (es.OnLoadResult, error) {
				source, err := os.ReadFile(args.Path)
				if err != nil {
					return es.OnLoadResult{}, fmt.Errorf("failed to read %s: %w", args.Path, err)
				}

				code, ok, err := plugin.Transform(ctx, host, string(source), args.Path)
				if err != nil {
					return es.OnLoadResult{}, err
				}
				if !ok {
					code = string(source)
				}
				code = applyModuleContext(moduleContext, args.Path, code)

				return es.OnLoadResult{
					Contents:   &code,
					ResolveDir: filepath.Dir(args.Path),
					Loader:     es.LoaderJS,
				}, nil
			})

			build.OnLoad(es.OnLoadOptions{Filter: libraryFilter, Namespace: "file"}, func(args es.OnLoadArgs) (es.OnLoadResult, error) {
				return loadWithModuleContext(moduleContext, args.Path)
			})
		},
	}
}

// ModuleContextPlugin only applies the module context. Worker builds use it
// since workers import library modules too.
func ModuleContextPlugin(moduleContext monaco.ModuleContext) es.Plugin {
	return es.Plugin{
		Name: monaco.Name + "-module-context",
		Setup: func(build es.PluginBuild) {
			build.OnLoad(es.OnLoadOptions{Filter: libraryFilter, Namespace: "file"}, func(args es.OnLoadArgs) (es.OnLoadResult, error) {
				return loadWithModuleContext(moduleContext, args.Path)
			})
		},
	}
}

func loadWithModuleContext(moduleContext monaco.ModuleContext, path string) (es.OnLoadResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return es.OnLoadResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	code := applyModuleContext(moduleContext, path, string(source))
	if code == string(source) {
		// let esbuild load it
		return es.OnLoadResult{}, nil
	}

	return es.OnLoadResult{
		Contents:   &code,
		ResolveDir: filepath.Dir(path),
		Loader:     es.LoaderJS,
	}, nil
}
