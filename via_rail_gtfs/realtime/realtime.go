// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

// Package realtime converts the live VIA Rail train feed into GTFS-Realtime.
//
// The static reference data is loaded once by the [schedules] package,
// and then every call to [GetFeed] makes a single request to the live
// feed and matches it against that data.
package realtime

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/fact"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/match"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/schedules"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/source"
)

// GetFeed fetches the live trains and converts them into facts.
// Only the fetch may fail; trains which can't be matched are counted in the returned stats.
func GetFeed(ctx context.Context, static *schedules.Index, client *http.Client, opts source.FetchOptions) (*fact.Container, match.Stats, error) {
	var stats match.Stats

	slog.Debug("Fetching trains")
	real, err := source.FetchTrains(ctx, client, opts)
	if err != nil {
		return nil, stats, err
	}
	slog.Debug("Fetched trains", "items", len(real))

	slog.Debug("Parsing trip updates")
	facts := match.TripUpdates(real, static, &stats)
	slog.Debug("Parsed trip updates", "facts", facts.TotalFacts(), "stats", stats)

	return facts, stats, nil
}
