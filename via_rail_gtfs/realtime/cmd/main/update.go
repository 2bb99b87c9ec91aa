// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/config"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/fact"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/match"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/metrics"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/schedules"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/util/http2"
	"github.com/cenkalti/backoff/v4"
)

const maxBackoffExponent = 6

type result struct {
	facts int
	stats match.Stats
}

type updater struct {
	static    *schedules.Index
	client    *http.Client
	cfg       *config.Config
	collector *metrics.Collector
}

// run performs a single feed update: fetch, transform and write all outputs.
func (u *updater) run(ctx context.Context) (r result, err error) {
	start := time.Now()
	defer func() {
		u.collector.Observe(r.stats, r.facts, time.Since(start), err)
	}()

	facts, stats, err := realtime.GetFeed(ctx, u.static, u.client, u.cfg.FetchOptions())
	if err != nil {
		return result{stats: stats}, err
	}

	if err = u.writeOutput(facts); err != nil {
		return result{stats: stats}, err
	}
	return result{facts: facts.TotalFacts(), stats: stats}, nil
}

func (u *updater) writeOutput(facts *fact.Container) error {
	slog.Debug("Dumping GTFS-Realtime")
	err := facts.DumpGTFSFile(u.cfg.Output.GTFS, u.cfg.Output.Readable)
	if err != nil {
		return fmt.Errorf("%s: %w", u.cfg.Output.GTFS, err)
	}

	if u.cfg.Output.JSON != "" {
		slog.Debug("Dumping JSON")
		err = facts.DumpJSONFile(u.cfg.Output.JSON, u.cfg.Output.Readable)
		if err != nil {
			return fmt.Errorf("%s: %w", u.cfg.Output.JSON, err)
		}
	}

	return nil
}

// loop updates the feed every period until ctx is cancelled.
// Temporary upstream failures are retried with exponential backoff, anything else ends the loop.
func (u *updater) loop(ctx context.Context) error {
	period := u.cfg.Loop.Period
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = period
	b.MaxInterval = period << maxBackoffExponent
	b.MaxElapsedTime = u.cfg.Loop.MaxElapsed

	for {
		b.Reset()
		r, err := backoff.RetryNotifyWithData(
			func() (result, error) {
				r, err := u.run(ctx)
				if err != nil && !canBackoff(err) {
					return r, backoff.Permanent(err)
				}
				return r, err
			},
			backoff.WithContext(b, ctx),
			func(err error, d time.Duration) {
				slog.Error("Feed update failure", "error", err, "next_try", d)
			},
		)

		if ctx.Err() != nil {
			slog.Info("Stopping feed updates")
			return nil
		} else if err != nil {
			return err
		}
		slog.Info("Feed updated successfully", "facts", r.facts, "stats", r.stats)

		select {
		case <-ctx.Done():
			slog.Info("Stopping feed updates")
			return nil
		case <-time.After(period):
		}
	}
}

// canBackoff returns true for upstream failures which are likely to go away on their own:
// transport errors and some HTTP statuses.
func canBackoff(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var httpErr *http2.Error
	if errors.As(err, &httpErr) {
		return httpErr.IsTemporary()
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
