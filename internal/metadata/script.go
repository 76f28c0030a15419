package metadata

import (
	"fmt"

	"github.com/dop251/goja"
	es "github.com/evanw/esbuild/pkg/api"
)

// toCommonJS converts an ES module into a CommonJS script that goja can run.
func toCommonJS(filename string, source string) (string, error) {
	result := es.Transform(source, es.TransformOptions{
		Loader:     es.LoaderJS,
		Format:     es.FormatCommonJS,
		Sourcefile: filename,
		Target:     es.ES2015,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		if len(result.Errors) > 1 {
			return "", fmt.Errorf("failed to transform %s: %s (and %d more errors)", filename, msg.Text, len(result.Errors)-1)
		}
		return "", fmt.Errorf("failed to transform %s: %s", filename, msg.Text)
	}
	return string(result.Code), nil
}

// evalCommonJS runs a CommonJS script and returns its `module.exports`.
func evalCommonJS(filename string, script string) (*goja.Object, error) {
	vm := goja.New()

	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	if err := vm.Set("module", module); err != nil {
		return nil, err
	}
	if err := vm.Set("exports", exports); err != nil {
		return nil, err
	}
	if err := vm.Set("require", func(name string) goja.Value {
		panic(vm.NewGoError(fmt.Errorf("require(%q) is not available in %s", name, filename)))
	}); err != nil {
		return nil, err
	}

	if _, err := vm.RunScript(filename, script); err != nil {
		return nil, fmt.Errorf("failed to evaluate %s: %w", filename, err)
	}

	return module.Get("exports").ToObject(vm), nil
}

func exportedArray(exports *goja.Object, name string) ([]any, bool) {
	value := exports.Get(name)
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil, false
	}
	arr, ok := value.Export().([]any)
	return arr, ok
}

func toEntry(value any) (Entry, error) {
	switch value := value.(type) {
	case string:
		return Entry{value}, nil
	case []any:
		entry := make(Entry, 0, len(value))
		for _, item := range value {
			path, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entry item must be a string, got %T", item)
			}
			entry = append(entry, path)
		}
		return entry, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("entry must be a string or an array of strings, got %T", value)
	}
}

func toFeatures(items []any) ([]FeatureDescriptor, error) {
	features := make([]FeatureDescriptor, 0, len(items))
	for index, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("features[%d] is not an object", index)
		}

		label, _ := obj["label"].(string)
		if label == "" {
			return nil, fmt.Errorf("features[%d] has no label", index)
		}
		entry, err := toEntry(obj["entry"])
		if err != nil {
			return nil, fmt.Errorf("features[%d] (%s): %w", index, label, err)
		}

		worker, err := toWorker(obj["worker"])
		if err != nil {
			return nil, fmt.Errorf("features[%d] (%s): %w", index, label, err)
		}

		features = append(features, FeatureDescriptor{Label: label, Entry: entry, Worker: worker})
	}
	return features, nil
}

func toLanguages(items []any) ([]LanguageDescriptor, error) {
	languages := make([]LanguageDescriptor, 0, len(items))
	for index, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("languages[%d] is not an object", index)
		}

		label, _ := obj["label"].(string)
		if label == "" {
			return nil, fmt.Errorf("languages[%d] has no label", index)
		}
		entry, err := toEntry(obj["entry"])
		if err != nil {
			return nil, fmt.Errorf("languages[%d] (%s): %w", index, label, err)
		}

		worker, err := toWorker(obj["worker"])
		if err != nil {
			return nil, fmt.Errorf("languages[%d] (%s): %w", index, label, err)
		}

		languages = append(languages, LanguageDescriptor{Label: label, Entry: entry, Worker: worker})
	}
	return languages, nil
}

func toWorker(value any) (*WorkerEntry, error) {
	if value == nil {
		return nil, nil
	}

	worker, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("worker must be an object, got %T", value)
	}

	id, _ := worker["id"].(string)
	entry, _ := worker["entry"].(string)
	if id == "" || entry == "" {
		return nil, fmt.Errorf("worker needs an id and an entry")
	}
	return &WorkerEntry{ID: id, Entry: entry}, nil
}
