package monaco

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

//go:embed environment.js.tmpl
var environmentSource string

var environmentTemplate = template.Must(template.New("environment").Parse(environmentSource))

type environmentData struct {
	// Both fields hold JavaScript literals
	PathPrefix string
	Paths      string
}

func jsonLiteral(value any, indent bool) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// RenderEnvironment returns the script that installs self.MonacoEnvironment,
// whose getWorkerUrl looks labels up in paths.
func RenderEnvironment(pathPrefix string, paths WorkerPathTable) (string, error) {
	prefixLiteral, err := jsonLiteral(pathPrefix, false)
	if err != nil {
		return "", fmt.Errorf("failed to encode path prefix: %w", err)
	}
	pathsLiteral, err := jsonLiteral(paths, true)
	if err != nil {
		return "", fmt.Errorf("failed to encode worker paths: %w", err)
	}

	var buf bytes.Buffer
	if err := environmentTemplate.Execute(&buf, environmentData{
		PathPrefix: prefixLiteral,
		Paths:      pathsLiteral,
	}); err != nil {
		return "", fmt.Errorf("failed to render environment: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
