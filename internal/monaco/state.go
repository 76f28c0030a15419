package monaco

import "sync/atomic"

// emissionState is pending until the worker chunks have been handed to the
// host, then emitted forever.
type emissionState struct {
	emitted atomic.Bool
}

// begin reports whether the caller won the transition from pending to
// emitted and must emit the chunks.
func (s *emissionState) begin() bool {
	return s.emitted.CompareAndSwap(false, true)
}

// entryState flips to seen the first time a core entry module is transformed.
type entryState struct {
	seen atomic.Bool
}

func (s *entryState) markSeen() {
	s.seen.CompareAndSwap(false, true)
}

func (s *entryState) isSeen() bool {
	return s.seen.Load()
}
