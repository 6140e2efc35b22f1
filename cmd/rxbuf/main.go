// Command rxbuf reads lines from a file or stdin, groups them into batches
// and writes every batch to a sink.
//
// A batch is closed when it reaches batch.max_lines lines, or when a line arrives
// more than batch.max_wait after the batch was opened.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/destel/rx"
	"github.com/destel/rx/internal/config"
	"github.com/destel/rx/internal/sink"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute runs the command with the given arguments and returns the process exit code.
// The logger is flushed on every path.
func execute(args []string) int {
	flags := flag.NewFlagSet("rxbuf", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to the YAML config file")
	envPath := flags.String("env", ".env", "path to the env file")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	setupZapLogger(cfg.Runtime.Log)
	log := zap.S()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Errorw("rxbuf failed", zap.Error(err))
		return 1
	}
	return 0
}

func setupZapLogger(logCfg config.LogConfig) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(logCfg.Level())
	cfg.OutputPaths = logCfg.Outputs
	if len(cfg.OutputPaths) == 0 {
		cfg.OutputPaths = []string{"stderr"}
	}
	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		panic(fmt.Sprintf("failed to setup zap logging: %v", err))
	}

	zap.ReplaceGlobals(l)
}

func run(ctx context.Context, cfg *config.Config) error {
	runID := uuid.NewString()
	log := zap.S().With("run_id", runID)

	in := io.Reader(os.Stdin)
	if cfg.Input.Path != "" {
		f, err := os.Open(cfg.Input.Path)
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer f.Close()
		in = f
	}

	var out sink.Sink
	switch cfg.Sink.Type {
	case config.SinkSQLite:
		s, err := sink.NewSQLite(cfg.Sink.DSN, runID)
		if err != nil {
			return errors.Wrap(err, "sqlite sink")
		}
		out = s
	default:
		out = sink.NewJSON(os.Stdout, runID)
	}
	defer out.Close()

	registry := prometheus.NewRegistry()
	metrics := rx.NewBufferMetrics(registry, "rxbuf", "buffer")

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Runtime.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: cfg.Runtime.MetricsAddr, Handler: mux}

		g.Go(func() error {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		// stops the metrics server once the input is exhausted
		defer cancel()

		summary, err := pipeline(ctx, in, out, cfg.Batch, metrics)
		if errors.Is(err, rx.ErrNoElements) {
			log.Infow("input is empty")
			return nil
		}
		if err != nil {
			return err
		}

		log.Infow("done",
			"batches", summary.Count,
			"min_size", summary.Min,
			"max_size", summary.Max,
			"mean_size", summary.Mean,
			"stddev_size", summary.StdDev(),
		)
		return nil
	})

	return g.Wait()
}

// pipeline batches the lines of in, writes every batch to out and returns a summary of batch sizes.
// It returns rx.ErrNoElements if there was nothing to write.
func pipeline(ctx context.Context, in io.Reader, out sink.Sink, cfg config.BatchConfig, metrics *rx.BufferMetrics) (rx.Summary, error) {
	lines := rx.FromChan(readLines(ctx, in))

	batches := rx.BufferWhile(lines,
		rx.CountOrTimeGate(rx.TimeScheduler, cfg.MaxLines, cfg.MaxWait),
		rx.WithCapacity(cfg.MaxLines),
		rx.WithMetrics(metrics),
	)

	sizes := rx.Map(batches, func(batch []string) (int, error) {
		if err := out.Write(ctx, batch); err != nil {
			return 0, errors.Wrapf(err, "write batch of %d lines", len(batch))
		}
		return len(batch), nil
	})

	summary, _, err := rx.First(ctx, rx.Summarize(sizes))
	return summary, err
}

// readLines streams the lines of r. A read error is the last item of the stream.
func readLines(ctx context.Context, r io.Reader) <-chan rx.Try[string] {
	out := make(chan rx.Try[string])

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			case out <- rx.Try[string]{Value: scanner.Text()}:
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case <-ctx.Done():
			case out <- rx.Try[string]{Error: errors.Wrap(err, "read input")}:
			}
		}
	}()

	return out
}
