// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package match

// SkipReason explains why a live train did not produce an entity.
type SkipReason uint8

const (
	SkipNone SkipReason = iota
	SkipNoStopTimes
	SkipInvalidScheduledTime
	SkipUnknownTrip
)

var AllSkipReasons = []SkipReason{SkipNoStopTimes, SkipInvalidScheduledTime, SkipUnknownTrip}

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipNoStopTimes:
		return "no_stop_times"
	case SkipInvalidScheduledTime:
		return "invalid_scheduled_time"
	case SkipUnknownTrip:
		return "unknown_trip"
	default:
		return "unknown"
	}
}

// Stats counts the outcomes of matching live trains with static data.
type Stats struct {
	Matched               int `json:"matched"`
	NoStopTimes           int `json:"no_stop_times"`
	InvalidScheduledTimes int `json:"invalid_scheduled_times"`
	Unmatched             int `json:"unmatched"`

	// Fields dropped from otherwise valid trains
	InvalidEstimates int `json:"invalid_estimates"`
	InvalidPolls     int `json:"invalid_polls"`
}

func (s *Stats) record(r SkipReason) {
	if s == nil {
		return
	}

	switch r {
	case SkipNone:
		s.Matched++
	case SkipNoStopTimes:
		s.NoStopTimes++
	case SkipInvalidScheduledTime:
		s.InvalidScheduledTimes++
	case SkipUnknownTrip:
		s.Unmatched++
	}
}

// Skipped returns the number of trains skipped for the given reason.
func (s Stats) Skipped(r SkipReason) int {
	switch r {
	case SkipNoStopTimes:
		return s.NoStopTimes
	case SkipInvalidScheduledTime:
		return s.InvalidScheduledTimes
	case SkipUnknownTrip:
		return s.Unmatched
	default:
		return 0
	}
}

// Total returns the number of processed trains.
func (s Stats) Total() int {
	return s.Matched + s.NoStopTimes + s.InvalidScheduledTimes + s.Unmatched
}
