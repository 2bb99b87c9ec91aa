// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package match

import (
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/fact"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/schedules"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/source"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/util/time2"
)

// Result is the outcome of matching a single live train.
// Entity is nil if and only if Skip is not SkipNone.
type Result struct {
	Entity *fact.Entity
	Skip   SkipReason
}

func TripUpdates(real source.Trains, static *schedules.Index, stats *Stats) *fact.Container {
	return TripUpdatesAt(real, static, stats, time.Now())
}

// TripUpdatesAt converts all live trains into facts. Trains which can't be matched
// are left out. Entities are ordered by their instance labels.
func TripUpdatesAt(real source.Trains, static *schedules.Index, stats *Stats, now time.Time) *fact.Container {
	c := &fact.Container{
		Timestamp: now,
		Entities:  make([]*fact.Entity, 0, len(real)),
	}

	for _, instance := range slices.Sorted(maps.Keys(real)) {
		r := Train(instance, real[instance], static, stats)
		stats.record(r.Skip)
		if r.Entity != nil {
			c.Entities = append(c.Entities, r.Entity)
		}
	}
	return c
}

func Train(instance string, real *source.Train, static *schedules.Index, stats *Stats) Result {
	if real == nil || len(real.Times) == 0 || real.Times[0] == nil {
		return Result{Skip: SkipNoStopTimes}
	}

	startDate, err := ServiceDay(real.Times[0].Scheduled)
	if err != nil {
		return Result{Skip: SkipInvalidScheduledTime}
	}

	trip := Trip(instance, static)
	if trip == nil {
		return Result{Skip: SkipUnknownTrip}
	}

	e := &fact.Entity{
		ID: instance,
		TripSelector: fact.TripSelector{
			TripID:        trip.TripID,
			RouteID:       trip.RouteID,
			GTFSStartDate: startDate,
		},
		StopTimes: make([]*fact.StopTimeUpdate, 0, len(real.Times)),
	}

	for _, stop := range real.Times {
		if stop == nil {
			continue
		}
		e.StopTimes = append(e.StopTimes, stopTimeUpdate(instance, stop, static, stats))
	}

	if real.Poll != nil {
		e.Vehicle = vehiclePosition(instance, real, stats)
	}

	return Result{Entity: e}
}

func stopTimeUpdate(instance string, real *source.TrainStop, static *schedules.Index, stats *Stats) *fact.StopTimeUpdate {
	u := new(fact.StopTimeUpdate)
	u.StopID, _ = static.StopIDByCode(real.Code)
	u.Arrival = estimate(instance, real.Code, "arrival", real.Arrival, stats)
	u.Departure = estimate(instance, real.Code, "departure", real.Departure, stats)
	return u
}

// estimate returns the estimated time of an event, or a zero time if it's unknown.
// Malformed timestamps only drop the single event.
func estimate(instance, code, event string, real *source.EstimatedAndScheduled, stats *Stats) time.Time {
	if real == nil || real.Estimated == nil {
		return time.Time{}
	}

	t, err := time2.ParseISO(*real.Estimated)
	if err != nil {
		slog.Debug("Dropping invalid estimate", "train", instance, "stop", code, "event", event, "error", err)
		if stats != nil {
			stats.InvalidEstimates++
		}
		return time.Time{}
	}
	return t
}

func vehiclePosition(instance string, real *source.Train, stats *Stats) *fact.VehiclePosition {
	v := new(fact.VehiclePosition)

	if t, err := time2.ParseISO(*real.Poll); err != nil {
		slog.Debug("Dropping invalid poll timestamp", "train", instance, "error", err)
		if stats != nil {
			stats.InvalidPolls++
		}
	} else {
		v.Timestamp = t.Truncate(time.Second)
	}

	if real.HasPosition() {
		v.Position = &fact.Position{
			Latitude:  *real.Latitude,
			Longitude: *real.Longitude,
			Bearing:   real.Direction,
		}
		if real.Speed != nil {
			v.Position.Speed = ptr(KmhToMps(*real.Speed))
		}
	}

	return v
}

// KmhToMps converts speed from kilometers per hour to meters per second.
func KmhToMps(kmh float64) float32 {
	return float32(kmh / 3.6)
}

func ptr[T any](thing T) *T {
	return &thing
}
