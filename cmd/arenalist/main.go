// arenalist runs list workloads over a fixed-size arena and reports how the
// arena was used.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/pavanmanishd/stackarena/internal/workload"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "TOML workload configuration file",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 3,
	}
	metricsFlag = &cli.BoolFlag{
		Name:  "metrics",
		Usage: "Print arena metrics in Prometheus text format after the run",
	}
	namespaceFlag = &cli.StringFlag{
		Name:  "metrics.namespace",
		Usage: "Namespace of exported metric names",
		Value: "arenalist",
	}
	capacityFlag = &cli.IntFlag{
		Name:  "capacity",
		Usage: "Arena capacity in bytes (overrides the configuration)",
	}
	operationsFlag = &cli.IntFlag{
		Name:  "operations",
		Usage: "Number of random operations (overrides the configuration)",
	}
	seedFlag = &cli.Uint64Flag{
		Name:  "seed",
		Usage: "Seed of the operation stream (overrides the configuration)",
	}
)

var app = &cli.App{
	Name:  "arenalist",
	Usage: "exercise an arena-backed linked list",
	Flags: []cli.Flag{
		configFlag,
		verbosityFlag,
	},
	Commands: []*cli.Command{
		runCommand,
		dumpConfigCommand,
		sizeCommand,
	},
	Before: setupLogging,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) error {
	usecolor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	output := io.Writer(os.Stderr)
	if usecolor {
		output = colorable.NewColorable(os.Stderr)
	}
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(output, level, usecolor)))
	return nil
}

// loadConfig returns the file named by --config, or the defaults, with
// command line overrides applied.
func loadConfig(ctx *cli.Context) (workload.Config, error) {
	cfg := workload.DefaultConfig
	if file := ctx.String(configFlag.Name); file != "" {
		var err error
		if cfg, err = workload.LoadConfig(file); err != nil {
			return workload.Config{}, err
		}
	}
	if ctx.IsSet(capacityFlag.Name) {
		cfg.Storage.Capacity = ctx.Int(capacityFlag.Name)
	}
	if ctx.IsSet(operationsFlag.Name) {
		cfg.Operations = ctx.Int(operationsFlag.Name)
	}
	if ctx.IsSet(seedFlag.Name) {
		cfg.List.Seed = ctx.Uint64(seedFlag.Name)
	}
	return cfg, cfg.Validate()
}
