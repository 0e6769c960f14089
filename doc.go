// package atomicslice provides a fixed length array that many goroutines can
// read without ever blocking while others replace its contents as a whole.
//
// Consider some configuration that is consulted on every request and changes a
// few times a day. Guarding it with a sync.RWMutex makes every reader contend
// on the same lock word, and an atomic.Pointer to a freshly allocated copy
// makes every update allocate. A Slice keeps two copies of the array and a
// single status word instead:
//
//	var weights = atomicslice.New(make([]float64, 64))
//
//	func Score(features []float64) (total float64) {
//		weights.View(func(ws []float64) {
//			for i, w := range ws {
//				total += w * features[i]
//			}
//		})
//		return total
//	}
//
//	func Update(next []float64) error {
//		return weights.Write(next)
//	}
//
// View costs three atomic adds and no allocation. Read returns a heap allocated
// Lease for callers that cannot scope their use to a function, and it must be
// Released. Neither ever observes a partially written array: Write only fills
// the copy that is not current, and only after every reader still using that
// copy has finished with it. It then makes the copy current with a single
// atomic operation.
//
// Because a Write has to wait for Leases on the copy it is about to reuse, a
// Lease that is held for a long time delays the second Write after it. Use View
// or Load when the values are only needed briefly.
package atomicslice
