// Command slicestress hammers atomicslice.Slice with concurrent readers and
// writers and reports any read that observed a mixture of two writes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeebo/atomicslice/internal/stress"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli, err := parseFlags(os.Args[1:])
	if err != nil {
		return 2
	}
	log := setupLogger(cli.LogLevel, cli.LogFormat)

	cfg := stress.Default()
	if cli.ConfigPath != "" {
		if cfg, err = stress.Load(cli.ConfigPath); err != nil {
			log.Error("failed to load config", "path", cli.ConfigPath, "error", err)
			return 2
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	metrics := stress.NewMetrics(reg)
	if cli.MetricsAddr != "" {
		go serveMetrics(ctx, log, cli.MetricsAddr, reg)
	}

	failed := false
	for _, r := range cfg.Runs {
		res, err := stress.Execute(ctx, log, r, metrics)
		if err != nil {
			log.Error("run failed", "run", r.Name, "error", err)
			return 1
		}

		attrs := []any{
			"run", r.Name,
			"kind", r.Kind,
			"reads", res.Reads,
			"writes", res.Writes,
			"torn", res.TornReads,
			"elapsed", res.Elapsed,
		}
		if res.TornReads > 0 {
			failed = true
			log.Error("run observed torn reads", attrs...)
			continue
		}
		log.Info("run passed", attrs...)
	}

	if failed {
		return 1
	}
	return 0
}
