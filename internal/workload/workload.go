// Package workload drives synthetic traffic against a recycle pool so its
// retention and growth behavior can be observed under concurrency. The cmd
// bench command is its only consumer.
package workload

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ajitpratap0/recycle/pkg/config"
	"github.com/ajitpratap0/recycle/pkg/errors"
	"github.com/ajitpratap0/recycle/pkg/logger"
	"github.com/ajitpratap0/recycle/pkg/metrics"
	"github.com/ajitpratap0/recycle/pkg/recycle"
)

// Options shapes a benchmark run.
type Options struct {
	// Workers is the number of concurrent goroutines
	Workers int
	// Duration bounds the run; the context may end it earlier
	Duration time.Duration
	// BatchSize switches workers to GetN/RetainN when above 1
	BatchSize int
	// ElementSize is the byte length of pooled buffers
	ElementSize int
}

// Result summarizes a completed run.
type Result struct {
	// Elapsed is the measured run time
	Elapsed time.Duration `json:"elapsed"`
	// Operations is the total number of get/retain pairs executed
	Operations int64 `json:"operations"`
	// Allocations counts supplier invocations, i.e. pool misses
	Allocations int64 `json:"allocations"`
	// Final is the statistics snapshot taken when the run ended
	Final recycle.Snapshot `json:"final"`
	// Snapshots are the periodic captures from the profiler loop
	Snapshots []recycle.Snapshot `json:"snapshots,omitempty"`
}

// Runner owns the pool under test and the workers that exercise it.
type Runner struct {
	cfg  *config.PoolConfig
	opts Options

	profiler  *recycle.Profiler[[]byte]
	collector *metrics.Collector
	log       *zap.Logger

	allocations atomic.Int64
}

// NewRunner builds a pool from cfg and prepares a runner around it. The
// configuration must already be validated.
func NewRunner(cfg *config.PoolConfig, opts Options, reg prometheus.Registerer) (*Runner, error) {
	if opts.Workers < 1 {
		return nil, errors.New(errors.ErrorTypeValidation, "workers must be at least 1").
			WithDetail("workers", opts.Workers)
	}
	if opts.ElementSize < 1 {
		opts.ElementSize = 1024
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 1
	}

	r := &Runner{
		cfg:  cfg,
		opts: opts,
		log:  logger.With(zap.String("component", "workload"), zap.String("pool", cfg.Name)),
	}

	producer, err := producerFor[[]byte](cfg.Growth)
	if err != nil {
		return nil, err
	}
	policy, err := policyFor(cfg.Retention)
	if err != nil {
		return nil, err
	}

	supplier := func() []byte {
		r.allocations.Add(1)
		return make([]byte, opts.ElementSize)
	}
	pool, err := recycle.NewRecycler(producer, policy, supplier)
	if err != nil {
		return nil, err
	}

	interval := cfg.Profiler.Interval
	if !cfg.Profiler.Enabled {
		interval = 0
	}
	r.profiler, err = recycle.NewProfiler(pool, interval)
	if err != nil {
		return nil, err
	}

	r.collector = metrics.NewCollector(cfg.Name, reg)
	return r, nil
}

// Run executes the workload until the duration elapses or ctx is canceled,
// then returns the collected statistics.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runCtx := ctx
	if r.opts.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.opts.Duration)
		defer cancel()
	}

	r.log.Info("starting workload",
		zap.Int("workers", r.opts.Workers),
		zap.Int("batch_size", r.opts.BatchSize),
		zap.Duration("duration", r.opts.Duration),
	)

	start := time.Now()
	var ops atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.work(runCtx, &ops)
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	r.profiler.Terminate()
	defer r.teardown()

	snapshots := r.profiler.Snapshots()
	for _, snap := range snapshots {
		r.collector.Observe(snap)
	}
	final := r.profiler.CreateSnapshot()
	r.collector.Observe(final)

	result := &Result{
		Elapsed:     elapsed,
		Operations:  ops.Load(),
		Allocations: r.allocations.Load(),
		Final:       final,
		Snapshots:   snapshots,
	}
	r.log.Info("workload finished",
		zap.Duration("elapsed", result.Elapsed),
		zap.Int64("operations", result.Operations),
		zap.Int64("allocations", result.Allocations),
	)
	return result, nil
}

// work runs one worker loop. Each iteration takes elements from the pool,
// touches them, and hands them back, which is the cadence a pooled workload
// settles into.
func (r *Runner) work(ctx context.Context, ops *atomic.Int64) {
	if r.opts.BatchSize > 1 {
		buf := make([][]byte, r.opts.BatchSize)
		for ctx.Err() == nil {
			r.profiler.GetN(buf, len(buf))
			for _, b := range buf {
				if len(b) > 0 {
					b[0]++
				}
			}
			r.profiler.RetainN(buf, len(buf))
			ops.Add(int64(len(buf)))
		}
		return
	}

	for ctx.Err() == nil {
		b := r.profiler.Get()
		if len(b) > 0 {
			b[0]++
		}
		r.profiler.Retain(b)
		ops.Add(1)
	}
}

// teardown uninstalls timed policies so their disposers stop.
func (r *Runner) teardown() {
	if err := r.profiler.SetRetentionPolicy(recycle.RetainNone); err != nil {
		r.log.Warn("failed to reset retention policy", zap.Error(err))
	}
}

// producerFor translates a growth configuration into an array producer.
func producerFor[T any](g config.GrowthConfig) (recycle.ArrayProducer[T], error) {
	switch g.Mode {
	case config.GrowthConstant:
		return recycle.ConstantProducer[T](g.BucketSize)
	case config.GrowthLinear:
		return recycle.LinearProducer[T](g.Slope, g.Intercept)
	case config.GrowthExponential:
		return recycle.ExponentialProducer[T](g.Coefficient, g.Base)
	default:
		return nil, errors.New(errors.ErrorTypeConfig, "unknown growth mode").
			WithDetail("mode", g.Mode)
	}
}

// policyFor translates a retention configuration into a policy instance.
func policyFor(rc config.RetentionConfig) (recycle.RetentionPolicy, error) {
	switch rc.Policy {
	case config.PolicyAll:
		return recycle.RetainAll, nil
	case config.PolicyNone:
		return recycle.RetainNone, nil
	case config.PolicyMax:
		return recycle.NewRetainMax(rc.Limit)
	case config.PolicyAllTimed:
		evict, err := evictFor(rc)
		if err != nil {
			return nil, err
		}
		return recycle.NewRetainAllTimed(rc.Interval, evict)
	case config.PolicyMaxTimed:
		evict, err := evictFor(rc)
		if err != nil {
			return nil, err
		}
		return recycle.NewRetainMaxTimed(rc.Limit, rc.Interval, evict)
	default:
		return nil, errors.New(errors.ErrorTypeConfig, "unknown retention policy").
			WithDetail("policy", rc.Policy)
	}
}

func evictFor(rc config.RetentionConfig) (recycle.EvictFunc, error) {
	switch rc.Evict {
	case config.EvictAll:
		return recycle.EvictAll, nil
	case config.EvictHalf:
		return recycle.EvictHalf, nil
	case config.EvictConstant:
		if rc.EvictCount < 1 {
			return nil, errors.New(errors.ErrorTypeConfig, "evict_count must be at least 1").
				WithDetail("evict_count", rc.EvictCount)
		}
		return recycle.EvictConstant(rc.EvictCount), nil
	default:
		return nil, errors.New(errors.ErrorTypeConfig, "unknown evict function").
			WithDetail("evict", rc.Evict)
	}
}
