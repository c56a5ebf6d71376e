// Package recycle provides an in-process object-reuse pool built on a
// growable bucketed stack, with pluggable retention policies, background
// time-driven eviction, and an opt-in statistics profiler.
//
// The importable packages live under pkg/:
//
//   - pkg/recycle: the pool itself. Stack, Recycler, retention policies,
//     Disposer-backed timed policies, and the Profiler decorator.
//   - pkg/config: YAML pool configuration with environment variable
//     substitution.
//   - pkg/metrics: Prometheus collectors fed by profiler snapshots.
//   - pkg/logger, pkg/errors, pkg/strings: logging, structured errors, and
//     pooled string building shared by the other packages.
//
// # Quick Start
//
// Create a pool of byte buffers that keeps at most 4096 of them:
//
//	import "github.com/ajitpratap0/recycle/pkg/recycle"
//
//	policy, _ := recycle.NewRetainMax(4096)
//	pool, err := recycle.New(
//	    func() []byte { return make([]byte, 1024) },
//	    recycle.WithPolicy[[]byte](policy),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	buf := pool.Get()
//	// ... use buf ...
//	pool.Retain(buf)
//
// # Concurrency
//
// Recycler and Profiler are safe for concurrent use. Stack is not; it
// exposes its mutex through Locker so decorators and background disposers
// share one mutual exclusion domain with the facade.
//
// The cmd/recycle binary benchmarks pool configurations; see its bench
// command.
package recycle
