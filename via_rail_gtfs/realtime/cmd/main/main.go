// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/config"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/metrics"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/schedules"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "via-rail-gtfs-rt",
		Usage: "convert live VIA Rail train positions into GTFS-Realtime",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: config.DefaultPath, Usage: "path to the YAML config file"},
			&cli.StringFlag{Name: "gtfs", Usage: "path to GTFS Schedules feed (default: embedded tables)"},
			&cli.StringFlag{Name: "output", Usage: "where to write the GTFS-Realtime feed"},
			&cli.StringFlag{Name: "json", Usage: "where to write the debug JSON dump"},
			&cli.BoolFlag{Name: "readable", Usage: "dump output in human-readable format"},
			&cli.DurationFlag{Name: "loop", Usage: "when non-zero, update the feed continuously with the given period"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "address to serve Prometheus metrics on"},
			&cli.BoolFlag{Name: "verbose", Usage: "show DEBUG logging"},
		},
		Action: action,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func action(c *cli.Context) error {
	if c.Bool("verbose") {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.Info("Loading static schedules")
	static, err := loadStatic(cfg.Reference.GTFS)
	if err != nil {
		return err
	}
	trips, stops := static.Len()
	slog.Info("Loaded static schedules", "trips", trips, "stops", stops)

	collector := metrics.NewCollector()
	if cfg.Metrics.Addr != "" {
		srv := collector.Serve(cfg.Metrics.Addr)
		defer srv.Close()
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	u := &updater{
		static:    static,
		client:    &http.Client{Timeout: 30 * time.Second},
		cfg:       cfg,
		collector: collector,
	}

	if cfg.Loop.Period == 0 {
		r, err := u.run(ctx)
		if err != nil {
			return err
		}
		slog.Info("Feed updated successfully", "facts", r.facts, "stats", r.stats)
		return nil
	}
	return u.loop(ctx)
}

// applyFlags overrides config values with explicitly provided command line flags.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("gtfs") {
		cfg.Reference.GTFS = c.String("gtfs")
	}
	if c.IsSet("output") {
		cfg.Output.GTFS = c.String("output")
	}
	if c.IsSet("json") {
		cfg.Output.JSON = c.String("json")
	}
	if c.IsSet("readable") {
		cfg.Output.Readable = c.Bool("readable")
	}
	if c.IsSet("loop") {
		cfg.Loop.Period = c.Duration("loop")
	}
	if c.IsSet("metrics-addr") {
		cfg.Metrics.Addr = c.String("metrics-addr")
	}
}

func loadStatic(path string) (*schedules.Index, error) {
	if path == "" {
		return schedules.LoadEmbedded()
	}
	return schedules.LoadGTFSFromPath(path)
}
