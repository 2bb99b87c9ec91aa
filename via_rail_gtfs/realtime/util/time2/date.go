// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package time2

import (
	"fmt"
	"time"
)

// Date is a calendar date without any timezone information.
type Date struct {
	Y    uint16
	M, D uint8
}

// DateOf returns the calendar date of t in the provided location.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{uint16(y), uint8(m), uint8(d)}
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) StringSeparator(sep string) string {
	return fmt.Sprintf("%04d%s%02d%s%02d", d.Y, sep, d.M, sep, d.D)
}

// GTFS returns the date in the YYYYMMDD format used by GTFS and GTFS-Realtime.
func (d Date) GTFS() string {
	return d.StringSeparator("")
}

func (d Date) String() string {
	return d.StringSeparator("-")
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
