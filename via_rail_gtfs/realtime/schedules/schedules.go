// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package schedules

// Trip describes a scheduled trip from the static GTFS, as required for matching live data.
type Trip struct {
	RouteID     string
	TripID      string
	ShortName   string
	DirectionID uint8
}

// Index contains lookup tables over the static reference data.
// It is never modified after construction, and thus may be shared between goroutines.
type Index struct {
	trips map[string]*Trip
	stops map[string]string
}

// NewIndexFromMaps creates an Index directly from lookup tables.
// The Index takes ownership of the provided maps.
func NewIndexFromMaps(tripsByShortName map[string]*Trip, stopIDsByCode map[string]string) *Index {
	return &Index{trips: tripsByShortName, stops: stopIDsByCode}
}

// TripByShortName returns the trip with the given trip_short_name.
func (i *Index) TripByShortName(name string) (*Trip, bool) {
	if i == nil {
		return nil, false
	}
	t, ok := i.trips[name]
	return t, ok
}

// StopIDByCode returns the stop_id of a stop with the given stop_code.
func (i *Index) StopIDByCode(code string) (string, bool) {
	if i == nil {
		return "", false
	}
	id, ok := i.stops[code]
	return id, ok
}

// Len returns the number of known trips and stops.
func (i *Index) Len() (trips, stops int) {
	if i == nil {
		return 0, 0
	}
	return len(i.trips), len(i.stops)
}
