package atomicslice

import "runtime"

// yieldEvery is how many spins happen between calls to runtime.Gosched.
const yieldEvery = 64

// spinner is a busy wait backoff. It never parks the goroutine; it only gives
// the scheduler a chance to run whoever we are waiting on.
type spinner struct {
	spins uint32
}

func (s *spinner) spin() {
	s.spins++
	if s.spins%yieldEvery == 0 {
		runtime.Gosched()
	}
}

// drain spins until no readers are registered with the generation. The caller
// must hold the write gate and gen must not be current, so no new reader can
// keep it busy for longer than it takes to back out of it.
func drain(st *status, gen uint64) {
	var sp spinner
	for useCount(gen, st.load()) != 0 {
		sp.spin()
	}
}
