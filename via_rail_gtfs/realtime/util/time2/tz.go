// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package time2

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// TorontoTimezone is the home timezone of VIA Rail, used to compute service days.
var TorontoTimezone *time.Location

func init() {
	var err error
	TorontoTimezone, err = time.LoadLocation("America/Toronto")
	if err != nil {
		panic(fmt.Errorf("failed to load America/Toronto timezone: %w", err))
	}
}

// ParseISO parses an ISO-8601 timestamp with an explicit offset, as sent by VIA Rail.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
