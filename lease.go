package atomicslice

import "sync/atomic"

// Lease is a read-only view of one generation of a Slice. While it is not
// Released, no Write can overwrite the elements it refers to, so it should be
// held as briefly as possible: a long lived Lease stalls the second Write
// that follows it.
type Lease[T any] struct {
	st       *status
	gen      uint64
	values   []T
	released atomic.Bool
}

// Values returns the elements of the generation the Lease was acquired on. They
// must not be modified and must not be read after Release returns, as a Write
// may then reuse them.
func (l *Lease[T]) Values() []T { return l.values }

// Len returns the number of elements in the Lease.
func (l *Lease[T]) Len() int { return len(l.values) }

// Gen reports which of the two generations the Lease refers to.
func (l *Lease[T]) Gen() int { return int(l.gen) }

// Release ends the Lease. Only the first call has any effect. It is safe to
// call concurrently with itself and with the accessors.
func (l *Lease[T]) Release() {
	if l.released.CompareAndSwap(false, true) {
		l.st.release(l.gen)
	}
}

// Released reports if Release has been called.
func (l *Lease[T]) Released() bool { return l.released.Load() }
