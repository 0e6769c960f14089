package atomicslice

import (
	"fmt"
	"sync/atomic"
)

// The status word packs the current generation and a use count for each of the
// two generations into a single uint64 so that a reader can register with both
// generations and learn which one is current in one atomic operation.
//
//	bit  0      current generation
//	bits 1-15   unused, always zero
//	bits 16-39  generation 0 use count
//	bits 40-63  generation 1 use count
const (
	countBits  = 24
	countMask  = 1<<countBits - 1
	gen0Shift  = 16
	gen1Shift  = gen0Shift + countBits
	gen0Inc    = 1 << gen0Shift
	gen1Inc    = 1 << gen1Shift
	bothInc    = gen0Inc | gen1Inc
	validMask  = countMask<<gen1Shift | countMask<<gen0Shift | 1
	currentBit = 1
)

// MaxLeases is the number of Leases that may be outstanding against a single
// generation at once. It is half of what the use count field can hold so that
// readers racing past the bound cannot carry into a neighboring field before
// they back out.
const MaxLeases = 1 << (countBits - 1)

// current returns the generation new readers are directed to.
func current(s uint64) uint64 { return s & currentBit }

// useCount returns how many readers have registered with the generation.
func useCount(gen, s uint64) uint64 {
	if gen == 0 {
		return (s >> gen0Shift) & countMask
	}
	return (s >> gen1Shift) & countMask
}

// genInc returns the amount a single lease on gen adds to the status word.
func genInc(gen uint64) uint64 {
	if gen == 0 {
		return gen0Inc
	}
	return gen1Inc
}

// valid reports if no bits outside of the defined fields are set. It is only
// used for invariant checks.
func valid(s uint64) bool { return s&^validMask == 0 }

// status is the shared atomic status word.
type status struct {
	word atomic.Uint64
}

func (st *status) load() uint64 {
	s := st.word.Load()
	if debug {
		check(s)
	}
	return s
}

// acquireBoth registers a reader with both generations and returns the status
// as it was just before.
func (st *status) acquireBoth() uint64 {
	s := st.word.Add(bothInc) - bothInc
	if debug {
		check(s)
	}
	return s
}

// unacquireBoth undoes an acquireBoth.
func (st *status) unacquireBoth() {
	st.word.Add(^uint64(bothInc - 1))
}

// release drops a reader from the generation.
func (st *status) release(gen uint64) {
	s := st.word.Add(-genInc(gen)) + genInc(gen)
	if debug {
		check(s)
		if useCount(gen, s) == 0 {
			panic(fmt.Sprintf("atomicslice: release of idle generation %d: %#016x", gen, s))
		}
	}
}

// flip publishes the other generation. The caller must hold the write gate and
// pass the generation that is current, which guarantees the addition does not
// carry out of the selector bit.
func (st *status) flip(from uint64) {
	delta := uint64(1)
	if from == 1 {
		delta = ^uint64(0)
	}
	s := st.word.Add(delta) - delta
	if debug {
		check(s)
		if current(s) != from {
			panic(fmt.Sprintf("atomicslice: flip from %d raced: %#016x", from, s))
		}
	}
}

func check(s uint64) {
	if !valid(s) {
		panic(fmt.Sprintf("atomicslice: invalid status word %#016x", s))
	}
}
