// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package source

// Trains maps instance labels (like "VIA-45 2024-01-01") to live train data.
type Trains map[string]*Train

type Train struct {
	Departed  bool         `json:"departed"`
	Arrived   bool         `json:"arrived"`
	From      string       `json:"from"`
	To        string       `json:"to"`
	Instance  string       `json:"instance"`
	Speed     *float64     `json:"speed"` // km/h
	Latitude  *float32     `json:"lat"`
	Longitude *float32     `json:"lng"`
	Direction *float32     `json:"direction"`
	Times     []*TrainStop `json:"times"`
	Poll      *string      `json:"poll"`
}

type TrainStop struct {
	Station   string                 `json:"station"`
	Code      string                 `json:"code"`
	Estimated string                 `json:"estimated"`
	Scheduled string                 `json:"scheduled"`
	ETA       string                 `json:"eta"`
	Arrival   *EstimatedAndScheduled `json:"arrival"`
	Departure *EstimatedAndScheduled `json:"departure"`
}

type EstimatedAndScheduled struct {
	Estimated *string `json:"estimated"`
	Scheduled string  `json:"scheduled"`
}

// HasPosition returns true if both coordinates of the train are known.
func (t *Train) HasPosition() bool {
	return t.Latitude != nil && t.Longitude != nil
}
