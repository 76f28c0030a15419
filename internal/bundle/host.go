package bundle

import (
	"sync"

	"monacobundle.dev/internal/log"
	"monacobundle.dev/internal/monaco"
)

// chunkHost collects what the plugin asks of the bundler while esbuild runs
// its callbacks, which may happen on several goroutines.
type chunkHost struct {
	mu       sync.Mutex
	emitted  []monaco.EmittedChunk
	warnings []string
	virtual  VirtualModuleStats
}

// VirtualModuleStats counts the esbuild callbacks for modules that only
// exist in the plugin.
type VirtualModuleStats struct {
	Resolved int
	Loaded   int
}

// virtualRecorder is implemented by hosts that count virtual module traffic.
type virtualRecorder interface {
	recordResolve()
	recordLoad()
}

func (host *chunkHost) recordResolve() {
	host.mu.Lock()
	defer host.mu.Unlock()
	host.virtual.Resolved++
}

func (host *chunkHost) recordLoad() {
	host.mu.Lock()
	defer host.mu.Unlock()
	host.virtual.Loaded++
}

// drainVirtual returns the counts since the last call.
func (host *chunkHost) drainVirtual() VirtualModuleStats {
	host.mu.Lock()
	defer host.mu.Unlock()

	stats := host.virtual
	host.virtual = VirtualModuleStats{}
	return stats
}

func (host *chunkHost) EmitChunk(chunk monaco.EmittedChunk) {
	host.mu.Lock()
	defer host.mu.Unlock()

	for _, emitted := range host.emitted {
		if emitted.FileName == chunk.FileName {
			return
		}
	}
	host.emitted = append(host.emitted, chunk)

	logger.Debug("Worker chunk emitted", log.Ctx{
		"id":       chunk.ID,
		"fileName": chunk.FileName,
	})
}

func (host *chunkHost) Warn(message string) {
	host.mu.Lock()
	defer host.mu.Unlock()

	host.warnings = append(host.warnings, message)
	logger.Warn(message, log.Ctx{"plugin": monaco.Name})
}

func (host *chunkHost) emittedChunks() []monaco.EmittedChunk {
	host.mu.Lock()
	defer host.mu.Unlock()
	return append([]monaco.EmittedChunk(nil), host.emitted...)
}

// drainWarnings returns the warnings since the last call.
func (host *chunkHost) drainWarnings() []string {
	host.mu.Lock()
	defer host.mu.Unlock()

	warnings := host.warnings
	host.warnings = nil
	return warnings
}
