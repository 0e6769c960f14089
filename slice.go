package atomicslice

import (
	"golang.org/x/sys/cpu"
)

// Slice is a fixed length array of values that can be read without blocking
// and replaced as a whole. It keeps two copies of the array, called
// generations: readers use the current one while a writer fills the other and
// then makes it current. The zero value is an empty Slice.
type Slice[T any] struct {
	// status is touched by every reader, so it is kept away from the write
	// gate and from the header of the backing storage.
	status status
	_      cpu.CacheLinePad
	gate   gate
	_      cpu.CacheLinePad
	pool   pool[T]
}

// Stats is a point in time view of a Slice's status word.
type Stats struct {
	// Current is the generation new readers are directed to.
	Current int
	// Readers is the number of readers registered with each generation.
	Readers [2]int
}

// New returns a Slice holding a copy of initial. The length of initial is the
// length of the Slice for its entire life.
func New[T any](initial []T) *Slice[T] {
	return &Slice[T]{pool: newPool(initial)}
}

// Len returns the number of elements in the Slice.
func (s *Slice[T]) Len() int { return s.pool.stride }

// Read returns a Lease on the current generation. It never blocks. The Lease
// must be Released. It panics with a CapacityError if MaxLeases Leases are
// already outstanding on a generation. Each Lease is a heap allocation, so
// View or Load should be used in hot loops.
func (s *Slice[T]) Read() *Lease[T] {
	l, err := s.TryRead()
	if err != nil {
		panic(err)
	}
	return l
}

// TryRead is like Read but returns a CapacityError instead of panicking.
func (s *Slice[T]) TryRead() (*Lease[T], error) {
	gen, err := s.acquire()
	if err != nil {
		return nil, err
	}
	return &Lease[T]{
		st:     &s.status,
		gen:    gen,
		values: s.pool.gen(gen),
	}, nil
}

// acquire registers a reader with the current generation and returns it.
func (s *Slice[T]) acquire() (uint64, error) {
	// registering with both generations before knowing which one is current
	// means there is no window where a writer could flip and start filling
	// the generation we are about to use.
	st := s.status.acquireBoth()
	if useCount(0, st) >= MaxLeases || useCount(1, st) >= MaxLeases {
		s.status.unacquireBoth()
		return 0, CapacityError.New("%d leases outstanding", MaxLeases)
	}

	gen := current(st)
	s.status.release(gen ^ 1)
	return gen, nil
}

// View calls fn with the current generation. The values must not be modified
// or retained after fn returns. The generation is released even if fn panics.
func (s *Slice[T]) View(fn func(values []T)) {
	gen, err := s.acquire()
	if err != nil {
		panic(err)
	}
	defer s.status.release(gen)
	fn(s.pool.gen(gen))
}

// Load copies the current generation into dst and returns the number of
// elements copied.
func (s *Slice[T]) Load(dst []T) (n int) {
	s.View(func(values []T) { n = copy(dst, values) })
	return n
}

// Snapshot returns a copy of the current generation.
func (s *Slice[T]) Snapshot() []T {
	out := make([]T, s.Len())
	s.Load(out)
	return out
}

// Write replaces the contents of the Slice with data, which must have exactly
// Len elements. It waits for other writers, and for readers still using the
// generation it is about to fill, but readers never wait for it. Readers that
// start after Write returns observe data.
func (s *Slice[T]) Write(data []T) error {
	if len(data) != s.pool.stride {
		return LengthError.New("wrote %d elements to slice of length %d",
			len(data), s.pool.stride)
	}

	s.gate.Lock()
	defer s.gate.Unlock()

	// only the gate holder changes the current generation, so it is stable
	// until we flip it below.
	cur := current(s.status.load())
	next := cur ^ 1

	// readers who acquired next before the last flip may still be using it.
	drain(&s.status, next)

	copy(s.pool.gen(next), data)
	s.status.flip(cur)

	return nil
}

// Stats returns the current state of the status word. It is only a
// diagnostic: the values may be stale by the time it returns.
func (s *Slice[T]) Stats() Stats {
	st := s.status.load()
	return Stats{
		Current: int(current(st)),
		Readers: [2]int{int(useCount(0, st)), int(useCount(1, st))},
	}
}
