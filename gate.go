package atomicslice

import "sync/atomic"

// gate serializes writers. Readers never look at it.
type gate struct {
	held atomic.Bool
}

// Lock spins until the gate is acquired.
func (g *gate) Lock() {
	var sp spinner
	for !g.held.CompareAndSwap(false, true) {
		sp.spin()
	}
}

// Unlock releases the gate. It panics if the gate is not held.
func (g *gate) Unlock() {
	if !g.held.CompareAndSwap(true, false) {
		panic("atomicslice: unlock of unlocked write gate")
	}
}
