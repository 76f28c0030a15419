package log

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Lumberjack implements log file rotation
var writer io.Writer

func init() {
	// Without a cache dir we still want a usable logger, so fall back to the temp dir
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}

	writer = &lumberjack.Logger{
		Filename:   filepath.Join(cacheDir, "monacobundle", "logs.db"),
		MaxSize:    64, // Megabytes
		MaxBackups: 1,
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetVerbose toggles debug output for every logger.
func SetVerbose(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

type Ctx map[string]any
type Logger struct {
	zero      zerolog.Logger
	namespace string
}

func New(namespace string) Logger {
	return Logger{
		zero:      log.Output(writer).With().Str("namespace", namespace).Logger(),
		namespace: namespace,
	}
}
