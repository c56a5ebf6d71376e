package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/recycle/internal/workload"
	"github.com/ajitpratap0/recycle/pkg/config"
	"github.com/ajitpratap0/recycle/pkg/logger"
	"github.com/ajitpratap0/recycle/pkg/observability"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "recycle",
		Short: "Recycle - object pool benchmarking tool",
		Long: `Recycle exercises an object-reuse pool under configurable growth and
retention settings and reports the statistics its profiler gathered.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Recycle v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var (
		configFile  string
		workers     int
		duration    time.Duration
		batchSize   int
		elementSize int
		logLevel    string
		trace       bool
	)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a pool workload",
		Long: `Run a synthetic workload against a pool built from the given
configuration and print the run summary as JSON.

Example:
  recycle bench --config pool.yaml --workers 8 --duration 30s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(configFile, workload.Options{
				Workers:     workers,
				Duration:    duration,
				BatchSize:   batchSize,
				ElementSize: elementSize,
			}, logLevel, trace)
		},
	}
	benchCmd.Flags().StringVarP(&configFile, "config", "c", "", "Pool configuration file (YAML)")
	benchCmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Number of concurrent workers")
	benchCmd.Flags().DurationVarP(&duration, "duration", "d", 10*time.Second, "Run duration")
	benchCmd.Flags().IntVarP(&batchSize, "batch-size", "b", 1, "Elements per get/retain call")
	benchCmd.Flags().IntVar(&elementSize, "element-size", 1024, "Byte length of pooled buffers")
	benchCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	benchCmd.Flags().BoolVar(&trace, "trace", false, "Export spans to stdout")
	root.AddCommand(benchCmd)

	validateCmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a pool configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(args[0]); err != nil {
				return err
			}
			fmt.Printf("Configuration %q is valid\n", args[0])
			return nil
		},
	}
	root.AddCommand(validateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runBench(configFile string, opts workload.Options, logLevel string, trace bool) error {
	if err := logger.Init(logger.Config{Level: logLevel}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	cfg := config.NewPoolConfig("bench")
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if trace {
		shutdown, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:    "recycle-bench",
			ServiceVersion: version,
			SamplingRate:   1.0,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()

		tracer := observability.Tracer("recycle-bench")
		spanCtx, span := tracer.Start(ctx, "bench")
		defer span.End()
		ctx = spanCtx
	}

	runner, err := workload.NewRunner(cfg, opts, prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("failed to build pool: %w", err)
	}

	log.Info("running benchmark",
		zap.String("pool", cfg.Name),
		zap.String("growth", cfg.Growth.Mode),
		zap.String("policy", cfg.Retention.Policy),
	)

	result, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("workload failed: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
