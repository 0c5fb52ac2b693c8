package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/spf13/cobra"

	wp "github.com/ukkiwisurfer/Framework.Embedded-sub001"
	"github.com/ukkiwisurfer/Framework.Embedded-sub001/internal/config"
)

type runFlags struct {
	maxThreads int
	items      int
	kind       string
	failEvery  int
	pin        bool
}

func newRunCommand(configPath *string) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Submit a simulated workload and report pool statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, f)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runWorkload(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().IntVar(&f.maxThreads, "max-threads", 0, "Worker cap (overrides config)")
	cmd.Flags().IntVar(&f.items, "items", 0, "Number of items to submit (overrides config)")
	cmd.Flags().StringVar(&f.kind, "kind", "", "Workload kind: led, bus or flush (overrides config)")
	cmd.Flags().IntVar(&f.failEvery, "fail-every", 0, "Make every Nth item panic (overrides config)")
	cmd.Flags().BoolVar(&f.pin, "pin", false, "Pin workers to CPUs (overrides config)")

	return cmd
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, f runFlags) {
	flags := cmd.Flags()
	if flags.Changed("max-threads") {
		cfg.Pool.MaxThreads = f.maxThreads
	}
	if flags.Changed("items") {
		cfg.Workload.Items = f.items
	}
	if flags.Changed("kind") {
		cfg.Workload.Kind = f.kind
	}
	if flags.Changed("fail-every") {
		cfg.Workload.FailEvery = f.failEvery
	}
	if flags.Changed("pin") {
		cfg.Pool.PinWorkers = f.pin
	}
}

func runWorkload(ctx context.Context, out io.Writer, cfg *config.Config) error {
	var failures startFailures

	metrics := &wp.AtomicMetrics{}
	pool := wp.NewWithMetrics(wp.Options{
		MaxThreads: cfg.Pool.MaxThreads,
		PinWorkers: cfg.Pool.PinWorkers,
		Ctx:        ctx,
		OnInternalError: failures.observe,
	}, metrics)

	sink := newDeviceSink()
	for i := 1; i <= cfg.Workload.Items; i++ {
		if ctx.Err() != nil {
			break
		}
		item := sink.item(cfg.Workload.Kind, i, cfg.Workload.Duration)
		if cfg.Workload.FailEvery > 0 && i%cfg.Workload.FailEvery == 0 {
			item = faulty(i)
		}
		if err := pool.Submit(item); err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	stats := pool.Stats()
	if err := pool.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("poolctl: shutdown: %w", err)
	}

	lg.FromContext(ctx).Info("workload finished",
		lg.String("kind", cfg.Workload.Kind),
		lg.Int("workers", stats.Workers),
	)

	fmt.Fprintf(out, "kind:           %s\n", cfg.Workload.Kind)
	fmt.Fprintf(out, "workers:        %d/%d\n", stats.Workers, stats.MaxThreads)
	fmt.Fprintf(out, "submitted:      %d\n", metrics.Submitted())
	fmt.Fprintf(out, "executed:       %d\n", metrics.Executed())
	fmt.Fprintf(out, "failed:         %d\n", metrics.Failed())
	fmt.Fprintf(out, "start failures: %d\n", failures.count.Load())
	fmt.Fprintf(out, "device:         %s\n", sink.summary())
	return nil
}

// startFailures counts workers that could not be started. Other internal
// errors, such as work dropped at shutdown, are not counted.
type startFailures struct {
	count atomic.Int64
}

func (s *startFailures) observe(err error) {
	var se *wp.WorkerStartError
	if errors.As(err, &se) {
		s.count.Add(1)
	}
}

func faulty(i int) wp.WorkItem {
	return func() {
		panic(fmt.Sprintf("injected fault in item %d", i))
	}
}
