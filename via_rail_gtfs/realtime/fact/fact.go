// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package fact

import (
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/util/time2"
)

const GTFSRealtimeVersion = "2.0"

// Container holds all facts from a single run, in the order they should be emitted.
type Container struct {
	Timestamp time.Time `json:"timestamp"`
	Entities  []*Entity `json:"entities"`
}

func (c *Container) AsGTFS() *gtfs.FeedMessage {
	g := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: ptr(GTFSRealtimeVersion),
			Timestamp:           ptr(uint64(c.Timestamp.Unix())),
		},
	}

	g.Entity = make([]*gtfs.FeedEntity, len(c.Entities))
	for i, e := range c.Entities {
		g.Entity[i] = e.AsGTFS()
	}

	return g
}

func (c *Container) TotalFacts() int {
	return len(c.Entities)
}

// Entity describes the live state of a single train run: its stop-time updates
// and, when the train reported in, its vehicle position.
type Entity struct {
	ID string `json:"id"`
	TripSelector
	StopTimes []*StopTimeUpdate `json:"stop_times"`
	Vehicle   *VehiclePosition  `json:"vehicle,omitempty"`
}

func (e *Entity) AsGTFS() *gtfs.FeedEntity {
	g := new(gtfs.FeedEntity)
	g.Id = ptr(e.ID)

	g.TripUpdate = new(gtfs.TripUpdate)
	g.TripUpdate.Trip = e.TripSelector.AsGTFS()
	g.TripUpdate.StopTimeUpdate = make([]*gtfs.TripUpdate_StopTimeUpdate, len(e.StopTimes))
	for i, st := range e.StopTimes {
		g.TripUpdate.StopTimeUpdate[i] = st.AsGTFS()
	}

	if e.Vehicle != nil {
		g.Vehicle = e.Vehicle.AsGTFS(e.TripSelector)
	}

	return g
}

type StopTimeUpdate struct {
	StopID    string    `json:"stop_id,omitempty"`
	Arrival   time.Time `json:"arrival,omitzero"`
	Departure time.Time `json:"departure,omitzero"`
}

func (s *StopTimeUpdate) AsGTFS() *gtfs.TripUpdate_StopTimeUpdate {
	g := new(gtfs.TripUpdate_StopTimeUpdate)
	if s.StopID != "" {
		g.StopId = ptr(s.StopID)
	}

	if !s.Arrival.IsZero() {
		g.Arrival = &gtfs.TripUpdate_StopTimeEvent{Time: ptr(s.Arrival.Unix())}
	}

	if !s.Departure.IsZero() {
		g.Departure = &gtfs.TripUpdate_StopTimeEvent{Time: ptr(s.Departure.Unix())}
	}

	return g
}

type VehiclePosition struct {
	Timestamp time.Time `json:"timestamp,omitzero"`
	Position  *Position `json:"position,omitempty"`
}

func (v *VehiclePosition) AsGTFS(trip TripSelector) *gtfs.VehiclePosition {
	g := &gtfs.VehiclePosition{Trip: trip.AsGTFS()}
	if !v.Timestamp.IsZero() {
		g.Timestamp = ptr(uint64(v.Timestamp.Unix()))
	}
	if v.Position != nil {
		g.Position = v.Position.AsGTFS()
	}
	return g
}

type Position struct {
	Latitude  float32  `json:"lat"`
	Longitude float32  `json:"lon"`
	Bearing   *float32 `json:"bearing,omitempty"`
	Speed     *float32 `json:"speed,omitempty"` // m/s
}

func (p *Position) AsGTFS() *gtfs.Position {
	return &gtfs.Position{
		Latitude:  ptr(p.Latitude),
		Longitude: ptr(p.Longitude),
		Bearing:   p.Bearing,
		Speed:     p.Speed,
	}
}

type TripSelector struct {
	TripID        string     `json:"trip_id"`
	RouteID       string     `json:"route_id"`
	GTFSStartDate time2.Date `json:"start_date"`
}

// AsGTFS returns a new, partial TripDescriptor. Direction and start time are left unset,
// as consumers can resolve them from the trip_id.
func (s TripSelector) AsGTFS() *gtfs.TripDescriptor {
	return &gtfs.TripDescriptor{
		TripId:    ptr(s.TripID),
		RouteId:   ptr(s.RouteID),
		StartDate: ptr(s.GTFSStartDate.GTFS()),
	}
}

func ptr[T any](thing T) *T {
	return &thing
}
