package jiggler

import "sync"

// RunState is the shared running flag. Every successful TryStart begins a new
// generation so a loop left over from an earlier start/stop cycle can tell it
// has been superseded.
type RunState struct {
	mu         sync.Mutex
	running    bool
	generation uint64
}

// IsRunning reports whether a loop should be active.
func (r *RunState) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// TryStart sets the flag and returns the new generation. ok is false, and
// nothing changes, if it was already set.
func (r *RunState) TryStart() (generation uint64, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return r.generation, false
	}
	r.running = true
	r.generation++
	return r.generation, true
}

// Stop clears the flag unconditionally.
func (r *RunState) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
}

// StopGeneration clears the flag only if generation is still current. It
// reports whether anything was stopped.
func (r *RunState) StopGeneration(generation uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running || r.generation != generation {
		return false
	}
	r.running = false
	return true
}

// Current reports whether the loop owning generation should keep running.
func (r *RunState) Current(generation uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running && r.generation == generation
}
