package stress

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/fastrand"

	"github.com/zeebo/atomicslice"
)

// flushEvery is how many operations a goroutine batches before adding them to
// the shared counters and checking for cancellation.
const flushEvery = 1024

// sampleInterval is how often the outstanding lease gauge is refreshed.
const sampleInterval = 100 * time.Millisecond

// Result summarizes a completed run.
type Result struct {
	Run       Run
	Reads     uint64
	Writes    uint64
	TornReads uint64
	Elapsed   time.Duration
}

// Record is the multi-field element used by the record kind.
type Record struct {
	Tag   uint8
	Count uint64
	Ratio float32
	Pos   [3]int16
}

// Execute performs the run against a fresh Slice. It stops early with the
// context's error if ctx is canceled.
func Execute(ctx context.Context, log *slog.Logger, r Run, m *Metrics) (Result, error) {
	switch r.Kind {
	case KindU8:
		return execute(ctx, log, r, m, func(v uint64) uint8 { return uint8(v) })
	case KindU64:
		return execute(ctx, log, r, m, func(v uint64) uint64 { return v })
	case KindF64:
		return execute(ctx, log, r, m, func(v uint64) float64 { return float64(v) / 3 })
	case KindRecord:
		return execute(ctx, log, r, m, func(v uint64) Record {
			return Record{
				Tag:   uint8(v),
				Count: v,
				Ratio: float32(v) / 7,
				Pos:   [3]int16{int16(v), int16(v >> 16), -int16(v)},
			}
		})
	default:
		return Result{Run: r}, Error.New("run %q: unknown kind %q", r.Name, r.Kind)
	}
}

func execute[T comparable](ctx context.Context, log *slog.Logger, r Run, m *Metrics,
	value func(uint64) T) (Result, error) {

	log = log.With("run", r.Name, "kind", r.Kind)

	initial := make([]T, r.Stride)
	for i := range initial {
		initial[i] = value(0)
	}
	s := atomicslice.New(initial)

	var (
		reads, writes, torn atomic.Uint64
		next                atomic.Uint64
		wg                  sync.WaitGroup
		errOnce             sync.Once
		runErr              error
	)

	readsC := m.Reads.WithLabelValues(r.Name)
	writesC := m.Writes.WithLabelValues(r.Name)
	tornC := m.TornReads.WithLabelValues(r.Name)
	writeH := m.WriteDuration.WithLabelValues(r.Name)

	start := time.Now()
	log.Debug("starting", "stride", r.Stride, "readers", r.Readers,
		"writers", r.Writers, "iterations", r.Iterations)

	for i := 0; i < r.Readers; i++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			var local uint64
			flush := func() {
				reads.Add(local)
				readsC.Add(float64(local))
				local = 0
			}
			defer flush()

			for j := 0; j < r.Iterations; j++ {
				if j%flushEvery == 0 {
					flush()
					if ctx.Err() != nil {
						return
					}
				}

				lease := s.Read()
				if values := lease.Values(); !uniform(values) {
					if torn.Add(1) == 1 {
						log.Error("torn read", "reader", reader, "iteration", j,
							"values", fmt.Sprint(values))
					}
					tornC.Inc()
				}
				hold(r.HoldSpins)
				lease.Release()
				local++
			}
		}(i)
	}

	for i := 0; i < r.Writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]T, r.Stride)
			for j := 0; j < r.Iterations; j++ {
				if j%flushEvery == 0 && ctx.Err() != nil {
					return
				}

				v := value(next.Add(1))
				for k := range buf {
					buf[k] = v
				}

				began := time.Now()
				if err := s.Write(buf); err != nil {
					errOnce.Do(func() { runErr = Error.Wrap(err) })
					return
				}
				writeH.Observe(time.Since(began).Seconds())
				writes.Add(1)
				writesC.Inc()
			}
		}()
	}

	done := make(chan struct{})
	sampled := make(chan struct{})
	go func() {
		defer close(sampled)
		sample(s, m, r.Name, done)
	}()

	wg.Wait()
	close(done)
	<-sampled

	res := Result{
		Run:       r,
		Reads:     reads.Load(),
		Writes:    writes.Load(),
		TornReads: torn.Load(),
		Elapsed:   time.Since(start),
	}
	log.Debug("finished", "reads", res.Reads, "writes", res.Writes,
		"torn", res.TornReads, "elapsed", res.Elapsed)

	if runErr != nil {
		return res, runErr
	}
	if err := ctx.Err(); err != nil {
		return res, Error.Wrap(err)
	}
	if st := s.Stats(); st.Readers != [2]int{} {
		return res, Error.New("run %q: leases outstanding after run: %v", r.Name, st.Readers)
	}
	return res, nil
}

// sample records the Slice's outstanding leases until done is closed.
func sample[T any](s *atomicslice.Slice[T], m *Metrics, name string, done <-chan struct{}) {
	gen0 := m.Outstanding.WithLabelValues(name, "0")
	gen1 := m.Outstanding.WithLabelValues(name, "1")
	update := func() {
		st := s.Stats()
		gen0.Set(float64(st.Readers[0]))
		gen1.Set(float64(st.Readers[1]))
	}

	ticker := time.NewTicker(sampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			update()
			return
		case <-ticker.C:
			update()
		}
	}
}

// hold keeps a lease for a random number of scheduler yields below max.
func hold(max uint32) {
	if max == 0 {
		return
	}
	for n := fastrand.Uint32n(max); n > 0; n-- {
		runtime.Gosched()
	}
}

func uniform[T comparable](values []T) bool {
	for _, v := range values {
		if v != values[0] {
			return false
		}
	}
	return true
}
