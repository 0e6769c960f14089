package atomicslice

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/zeebo/pcg"
)

type record struct {
	tag   uint8
	count uint64
	ratio float32
	pos   [3]int16
}

func makeByte(v uint64) byte       { return byte(v) }
func makeUint64(v uint64) uint64   { return v }
func makeFloat64(v uint64) float64 { return float64(v) / 3 }
func makeRecord(v uint64) record {
	return record{
		tag:   uint8(v),
		count: v,
		ratio: float32(v) / 7,
		pos:   [3]int16{int16(v), int16(v >> 16), -int16(v)},
	}
}

// runGrid hammers a Slice with readers and writers and fails if any read
// observes elements from more than one write.
func runGrid[T comparable](t *testing.T, length, readers, writers, iterations int, value func(uint64) T) {
	s := New(fillFunc(length, 0, value))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var next uint64

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			rng := pcg.New(seed)
			for j := 0; j < iterations; j++ {
				lease := s.Read()
				values := lease.Values()
				if len(values) != length || !uniform(values) {
					t.Errorf("torn read on iteration %d: %v", j, values)
				}
				// sometimes hold the lease across a reschedule so writers
				// have to drain it.
				if rng.Uint32()%16 == 0 {
					runtime.Gosched()
				}
				lease.Release()
			}
		}(uint64(i))
	}

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]T, length)
			for j := 0; j < iterations; j++ {
				mu.Lock()
				next++
				v := next
				mu.Unlock()

				for k := range buf {
					buf[k] = value(v)
				}
				if err := s.Write(buf); err != nil {
					t.Error(err)
				}
			}
		}()
	}

	wg.Wait()

	if st := s.Stats(); st.Readers != [2]int{} {
		t.Errorf("leases outstanding after run: %+v", st)
	}
}

func fillFunc[T any](n int, v uint64, value func(uint64) T) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = value(v)
	}
	return out
}

func TestSliceGrid(t *testing.T) {
	iterations := 10000
	if testing.Short() {
		iterations = 1000
	}

	for readers := 1; readers <= 4; readers++ {
		for writers := 1; writers <= 4; writers++ {
			name := fmt.Sprintf("r%d-w%d", readers, writers)
			t.Run(name, func(t *testing.T) {
				t.Run("byte", func(t *testing.T) {
					runGrid(t, 16, readers, writers, iterations, makeByte)
				})
				t.Run("uint64", func(t *testing.T) {
					runGrid(t, 16, readers, writers, iterations, makeUint64)
				})
				t.Run("float64", func(t *testing.T) {
					runGrid(t, 16, readers, writers, iterations, makeFloat64)
				})
				t.Run("record", func(t *testing.T) {
					runGrid(t, 16, readers, writers, iterations, makeRecord)
				})
			})
		}
	}
}
