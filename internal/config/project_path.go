package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"monacobundle.dev/internal/static"
)

// LibraryPackage is the npm package name of the wrapped editor library.
const LibraryPackage = "monaco-editor"

var (
	projectPath string
)

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

type LibraryNotFoundError struct {
	visited []string
}

func (e LibraryNotFoundError) Error() string {
	var sb strings.Builder

	sb.WriteString("Could not find node_modules/" + LibraryPackage + "/package.json\n\n")
	sb.WriteString("Checked:\n")
	for _, dir := range e.visited {
		sb.WriteString(fmt.Sprintf("\t%s\n", dir))
	}
	sb.WriteString("\n")

	return sb.String()
}

// FindLibraryRoot walks upward from startDir and returns the first
// node_modules/monaco-editor directory that contains a package.json.
func FindLibraryRoot(startDir string) (string, error) {
	startDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	var visited []string
	currentDir := filepath.Clean(startDir)
	for {
		candidate := filepath.Join(currentDir, "node_modules", LibraryPackage)
		if fileExists(filepath.Join(candidate, "package.json")) {
			return candidate, nil
		}
		visited = append(visited, currentDir)

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			return "", LibraryNotFoundError{visited: visited}
		}
		currentDir = parent
	}
}

// SetProjectPath overrides the directory the library search starts from.
// It must be called before the first call to GetLibraryRoot.
func SetProjectPath(givenProjectPath string) (string, error) {
	if !filepath.IsAbs(givenProjectPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error: failed to get cwd: %s", err)
		}

		givenProjectPath = filepath.Join(cwd, givenProjectPath)
	}

	info, err := os.Stat(givenProjectPath)
	if err != nil {
		return "", fmt.Errorf("invalid project path %s: %w", givenProjectPath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("invalid project path %s: not a directory", givenProjectPath)
	}

	projectPath = filepath.Clean(givenProjectPath)
	return projectPath, nil
}

func GetProjectPath() (string, error) {
	if projectPath != "" {
		return projectPath, nil
	}
	return os.Getwd()
}

var GetLibraryRoot = static.CreateOnce(func() (string, error) {
	// An explicit path in the env is used as-is, we only check that it looks like
	// an installed copy of the library.
	if envLibraryPath := os.Getenv("MONACO_EDITOR_PATH"); envLibraryPath != "" {
		envLibraryPath, err := filepath.Abs(envLibraryPath)
		if err != nil {
			return "", err
		}
		if !fileExists(filepath.Join(envLibraryPath, "package.json")) {
			return "", LibraryNotFoundError{visited: []string{envLibraryPath}}
		}
		return envLibraryPath, nil
	}

	startDir, err := GetProjectPath()
	if err != nil {
		return "", fmt.Errorf("failed to get project path: %w", err)
	}
	return FindLibraryRoot(startDir)
})
