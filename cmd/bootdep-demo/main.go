// Command bootdep-demo bootstraps the demo application with bootdep.
//
// Usage:
//
//	bootdep-demo [-env file] [-debug] [-timing] [-metrics] [-manifest location] [-- app arguments]
//
// Settings not given as flags are read from BOOTDEP_* environment variables, seeded from the env
// file. Everything after "--" is handed to the application, for example:
//
//	bootdep-demo -debug -- -name Ada -name Linus
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gburgyan/go-bootdep"
	"github.com/gburgyan/go-bootdep/internal/config"
	"github.com/gburgyan/go-bootdep/internal/demo"
	"github.com/gburgyan/go-bootdep/internal/demo/message"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bootdep-demo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", ".env", "env file with BOOTDEP_* settings")
	debug := fs.Bool("debug", false, "log every component construction")
	timed := fs.Bool("timing", false, "print a timing report of the bootstrap")
	metrics := fs.Bool("metrics", false, "print the bootstrap metrics")
	manifest := fs.String("manifest", "", "directory, .zip archive or YAML file restricting the components")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Load(*envFile)
	cfg.Debug = cfg.Debug || *debug
	cfg.Timing = cfg.Timing || *timed
	if *manifest != "" {
		cfg.Manifest = *manifest
	}

	zl := newZapLogger(stderr, cfg.Debug)
	defer func() { _ = zl.Sync() }()
	log := zapr.NewLogger(zl)

	reg := bootdep.NewRegistry()
	demo.Register(reg, &message.Settings{Greeting: cfg.Greeting}, stdout)

	var lister bootdep.TypeLister = reg
	if cfg.Manifest != "" {
		ml, err := bootdep.OpenManifestLister(reg, cfg.Manifest)
		if err != nil {
			log.Error(err, "unable to load manifest", "location", cfg.Manifest)
			return 1
		}
		lister = ml
	}

	promReg := prometheus.NewRegistry()
	opts := []bootdep.Option{
		bootdep.WithLogger(log),
		bootdep.WithMetrics(bootdep.NewMetrics(promReg)),
		bootdep.Validate(demo.ValidateGreeting),
	}
	if cfg.Timing {
		opts = append(opts, bootdep.WithTiming())
	}

	c := bootdep.New(lister, opts...)
	err := c.Bootstrap(ctx, demo.Namespace, fs.Args())

	if cfg.Timing {
		fmt.Fprintln(stderr, c.TimingReport())
	}
	if *metrics {
		writeMetrics(stderr, promReg, log)
	}
	if err != nil {
		if c.Phase() == bootdep.PhaseFailed {
			fmt.Fprint(stderr, c.Status(), "\n")
		}
		log.Error(err, "application failed")
		return 1
	}
	return 0
}

func newZapLogger(out io.Writer, debug bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		// logr V(1) maps to zap level -1
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(out),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}

func writeMetrics(out io.Writer, gatherer prometheus.Gatherer, log logr.Logger) {
	families, err := gatherer.Gather()
	if err != nil {
		log.Error(err, "unable to gather metrics")
		return
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			log.Error(err, "unable to write metrics")
			return
		}
	}
}
