package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"

	"featurepipe/internal/config"
	"featurepipe/internal/logging"
	"featurepipe/internal/metrics"
	"featurepipe/internal/metrics/datadog"
	"featurepipe/internal/metrics/prompush"

	// register all backends with the storage factory.
	_ "featurepipe/internal/storage/all"
)

// main loads the pipeline file, sets up logging and metrics, and runs one
// read -> preprocess -> aggregate -> write pass.
func main() {
	var (
		cfgPath        string
		metricsBackend string
		pushGatewayURL string
		statsdAddr     string
		validate       bool
		probePath      string
		probeBackend   string
	)

	flag.StringVar(&cfgPath, "config", "configs/pipeline.yaml", "pipeline config path (YAML or JSON)")
	flag.StringVar(&metricsBackend, "metrics-backend", "", "metrics backend: pushgateway, datadog or none (default env METRICS_BACKEND)")
	flag.StringVar(&pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (default env PUSHGATEWAY_URL)")
	flag.StringVar(&statsdAddr, "statsd-addr", "", "DogStatsD address (default env DD_DOGSTATSD_URL or 127.0.0.1:8125)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.StringVar(&probePath, "probe", "", "profile this input file, print a draft pipeline config as JSON and exit")
	flag.StringVar(&probeBackend, "probe-backend", "sqlite", "storage kind for the -probe draft")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	if probePath != "" {
		setupLogging(config.Logging{}, *verbose)
		if err := probeFile(context.Background(), os.Stdout, probePath, probeBackend); err != nil {
			fatalf("probe: %v", err)
		}
		return
	}

	p, err := config.Load(cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}
	setupLogging(p.Logging, *verbose)
	log := logging.L()

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintln(os.Stderr, iss.Error())
	}
	if config.HasErrors(issues) {
		log.Error("configuration is invalid", "config", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Info("configuration is valid", "config", cfgPath)
		return
	}

	runID := uuid.NewString()
	log = log.With("job", p.Job, "run_id", runID)

	if err := setupMetrics(p.Job, runID, pick(metricsBackend, os.Getenv("METRICS_BACKEND")),
		pick(pushGatewayURL, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091"),
		pick(statsdAddr, os.Getenv("DD_DOGSTATSD_URL"), "127.0.0.1:8125"),
	); err != nil {
		log.Warn("metrics disabled", "err", err)
	}
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics: flush error", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	log.Info("run started", "source", p.Source.Kind, "parser", p.Parser.Kind, "storage", p.Storage.Kind)
	sum, err := run(ctx, p)
	if err != nil {
		log.Error("run failed", "err", err)
		stop()
		_ = metrics.Flush()
		os.Exit(1)
	}
	log.Info("run completed",
		"rows_read", sum.Read,
		"rows_skipped", sum.Skipped,
		"columns", sum.Columns,
		"rows_written", sum.Written,
		"took", time.Since(start).Truncate(time.Millisecond),
	)
}

// setupLogging applies env settings, then the pipeline file, then -v.
func setupLogging(cfg config.Logging, verbose bool) {
	logging.InitFromEnv()
	if cfg.Level == "" && !cfg.JSON && !verbose {
		return
	}
	opts := logging.Options{Level: cfg.Level, JSON: cfg.JSON}
	if verbose {
		opts.Level = "debug"
	}
	logging.Configure(opts)
}

// setupMetrics installs the selected backend, tagging every series with
// the run id.
func setupMetrics(job, runID, backend, gwURL, statsd string) error {
	switch backend {
	case "pushgateway":
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			return err
		}
		metrics.SetBackend(b.WithGrouping("run_id", runID))
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       statsd,
			GlobalTags: []string{"job:" + job, "run_id:" + runID},
		})
		if err != nil {
			return err
		}
		metrics.SetBackend(b)
	case "", "none":
		metrics.Disable()
	default:
		metrics.Disable()
		return fmt.Errorf("unknown metrics backend %q", backend)
	}
	logging.L().Debug("metrics configured", "backend", backend)
	return nil
}

// pick returns the first non-empty value.
func pick(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
