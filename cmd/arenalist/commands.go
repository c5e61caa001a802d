package main

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	arena "github.com/pavanmanishd/stackarena"
	"github.com/pavanmanishd/stackarena/internal/workload"
	"github.com/pavanmanishd/stackarena/list"
	"github.com/pavanmanishd/stackarena/metrics"
)

var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "Run a workload and print a report",
	Action: runWorkload,
	Flags: []cli.Flag{
		capacityFlag,
		operationsFlag,
		seedFlag,
		metricsFlag,
		namespaceFlag,
	},
}

var dumpConfigCommand = &cli.Command{
	Name:   "dumpconfig",
	Usage:  "Print the effective configuration as TOML",
	Action: dumpConfig,
	Flags: []cli.Flag{
		capacityFlag,
		operationsFlag,
		seedFlag,
	},
}

var sizeCommand = &cli.Command{
	Name:      "size",
	Usage:     "Show how many records an arena holds, or how large one must be",
	ArgsUsage: "[records]",
	Action:    size,
	Flags: []cli.Flag{
		capacityFlag,
	},
}

func runWorkload(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	stor := arena.NewStorage(cfg.Storage.Capacity)
	defer stor.Release()

	var reg *prometheus.Registry
	if ctx.Bool(metricsFlag.Name) {
		collector := metrics.NewCollector(ctx.String(namespaceFlag.Name))
		collector.Track("workload", stor)
		reg = prometheus.NewRegistry()
		if err := reg.Register(collector); err != nil {
			return errors.Wrap(err, "register metrics")
		}
	}

	rep, err := workload.RunOn(ctx.Context, stor, cfg, log.Root())
	if err != nil {
		return err
	}
	rep.Render(ctx.App.Writer)

	if reg != nil {
		fmt.Fprintln(ctx.App.Writer)
		return metrics.WriteText(ctx.App.Writer, reg)
	}
	return nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	return cfg.Encode(ctx.App.Writer)
}

func size(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	node := list.NodeSize[workload.Record]()

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"Quantity", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{"node size", fmt.Sprintf("%d B", node)})
	table.Append([]string{"capacity", fmt.Sprintf("%d B", cfg.Storage.Capacity)})
	table.Append([]string{"records that fit", strconv.Itoa(workload.NodesFor(cfg.Storage.Capacity))})

	if ctx.Args().Present() {
		n, err := strconv.Atoi(ctx.Args().First())
		if err != nil || n < 0 {
			return errors.Newf("invalid record count %q", ctx.Args().First())
		}
		table.Append([]string{fmt.Sprintf("capacity for %d records", n), fmt.Sprintf("%d B", n*node)})
	}
	table.Render()
	return nil
}
