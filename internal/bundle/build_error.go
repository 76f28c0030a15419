package bundle

import (
	"fmt"
	"strings"

	es "github.com/evanw/esbuild/pkg/api"
)

// BuildError folds the error messages of an esbuild result into one error.
type BuildError []es.Message

func getEsbuildErrorString(err es.Message) string {
	errMessage := err.Text

	if err.PluginName != "" {
		errMessage = fmt.Sprintf("%s: %s", err.PluginName, errMessage)
	}

	if err.Location != nil {
		// virtual modules are reported as <namespace>:<path>
		namespaceEnd := strings.Index(err.Location.File, ":")
		file := err.Location.File
		if namespaceEnd != -1 && !strings.Contains(file[:namespaceEnd], "/") {
			file = file[namespaceEnd+1:]
		}
		errMessage = fmt.Sprintf("%s in %s:%d:%d", errMessage, strings.TrimPrefix(file, "\x00"), err.Location.Line, err.Location.Column)
	}

	return errMessage
}

func (messages BuildError) Error() string {
	if len(messages) == 0 {
		return "Unknown error"
	}

	errMessage := getEsbuildErrorString(messages[0])
	if len(messages) > 1 {
		errMessage += fmt.Sprintf(" (and %d more errors)", len(messages)-1)
	}
	return errMessage
}

// Messages lists every error, one per line.
func (messages BuildError) Messages() []string {
	lines := make([]string, 0, len(messages))
	for _, message := range messages {
		lines = append(lines, getEsbuildErrorString(message))
	}
	return lines
}

func formatWarnings(messages []es.Message) []string {
	return BuildError(messages).Messages()
}
