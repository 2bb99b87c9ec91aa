// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package match

import (
	"strings"

	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/schedules"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/util/time2"
)

// TripShortName extracts the train number from an instance label,
// e.g. "VIA-45 2024-01-01" → "VIA-45".
func TripShortName(instance string) string {
	shortName, _, _ := strings.Cut(instance, " ")
	return shortName
}

// ServiceDay returns the GTFS start date of a live train, that is the date
// of its first scheduled stop in the VIA Rail home timezone.
func ServiceDay(scheduled string) (time2.Date, error) {
	t, err := time2.ParseISO(scheduled)
	if err != nil {
		return time2.Date{}, err
	}
	return time2.DateOf(t, time2.TorontoTimezone), nil
}

func Trip(instance string, static *schedules.Index) *schedules.Trip {
	t, _ := static.TripByShortName(TripShortName(instance))
	return t
}
