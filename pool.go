package atomicslice

// pool is the backing storage for both generations. It is a single allocation
// of 2*stride elements: generation 0 is the first half and generation 1 the
// second.
type pool[T any] struct {
	data   []T
	stride int
}

// newPool returns a pool with generation 0 holding a copy of initial and
// generation 1 holding zero values.
func newPool[T any](initial []T) pool[T] {
	data := make([]T, 2*len(initial))
	copy(data, initial)
	return pool[T]{data: data, stride: len(initial)}
}

// gen returns the elements of the generation. The capacity is clipped so that
// appending to the result can never spill into the other generation.
func (p *pool[T]) gen(g uint64) []T {
	off := int(g) * p.stride
	return p.data[off : off+p.stride : off+p.stride]
}
