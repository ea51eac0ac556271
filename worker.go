package oceaninterp

import (
	"runtime"
	"sync"
)

// Query is a single interpolation request, the in-process analogue of
// sr/distributed.go's IOData: instead of crossing an RPC boundary to a
// remote Worker, it crosses a channel to a goroutine in this process'
// own pool. ScalarField selects a scalar lookup; VectorFields selects a
// (u,v) pair — exactly one of the two should be set.
type Query struct {
	Lon, Lat, Z, T float64
	ScalarField    string
	VectorFields   [2]string
}

// Result holds the output of a single Query: either a scalar value or a
// (u,v) vector pair, plus any error locating or interpolating the point.
type Result struct {
	Index int
	Value float64
	U, V  float64
	Err   error
}

// RunBatch evaluates every query in batch concurrently across a fixed
// pool of goroutines (spec §5: coarse-grained parallelism across
// independent query batches; no networked RPC service, unlike the
// teacher's distributed Worker, since every query in a batch shares the
// same in-memory OceData). Results are returned in the same order as
// batch, regardless of completion order.
func RunBatch(data OceData, cfg *Config, batch []Query) []Result {
	results := make([]Result, len(batch))
	if len(batch) == 0 {
		return results
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(batch) {
		workers = len(batch)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = evalQuery(data, cfg, i, batch[i])
			}
		}()
	}
	for i := range batch {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func evalQuery(data OceData, cfg *Config, idx int, q Query) Result {
	pos, err := FromLatLon(data, q.Lon, q.Lat, q.Z, q.T)
	if err != nil {
		return Result{Index: idx, Err: err}
	}
	if q.ScalarField != "" {
		v, err := pos.Interpolate(q.ScalarField, cfg)
		return Result{Index: idx, Value: v, Err: err}
	}
	u, v, err := pos.InterpolateVector(q.VectorFields[0], q.VectorFields[1], cfg)
	return Result{Index: idx, U: u, V: v, Err: err}
}
