// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package schedules

import (
	"archive/zip"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/util/mcsv"
	"github.com/gocarina/gocsv"
)

//go:embed data/trips.csv data/stops.csv
var embedded embed.FS

type tripRow struct {
	RouteID     string `csv:"route_id"`
	TripID      string `csv:"trip_id"`
	ShortName   string `csv:"trip_short_name"`
	DirectionID string `csv:"direction_id"`
}

type stopRow struct {
	StopID   string `csv:"stop_id"`
	StopCode string `csv:"stop_code"`
}

// LoadEmbedded creates an Index from the reference tables bundled with the program.
func LoadEmbedded() (*Index, error) {
	return loadFiles(embedded, "data/trips.csv", "data/stops.csv")
}

// LoadGTFSFromPath creates an Index from a GTFS feed, either a directory or a zip archive.
func LoadGTFSFromPath(path string) (*Index, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if stat.IsDir() {
		return LoadGTFS(os.DirFS(path))
	}

	arch, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer arch.Close()

	return LoadGTFS(arch)
}

// LoadGTFS creates an Index from trips.txt and stops.txt of a GTFS feed.
func LoadGTFS(gtfs fs.FS) (*Index, error) {
	return loadFiles(gtfs, "trips.txt", "stops.txt")
}

func loadFiles(fsys fs.FS, tripsPath, stopsPath string) (*Index, error) {
	trips, err := fsys.Open(tripsPath)
	if err != nil {
		return nil, err
	}
	defer trips.Close()

	stops, err := fsys.Open(stopsPath)
	if err != nil {
		return nil, err
	}
	defer stops.Close()

	return NewIndex(trips, stops)
}

// NewIndex creates an Index from CSV files with trips and stops.
//
// Malformed rows are skipped, and a dataset without any valid rows
// results in an empty lookup table. Only I/O errors are returned.
func NewIndex(trips, stops io.Reader) (*Index, error) {
	tripsByShortName, err := LoadTrips(trips)
	if err != nil {
		return nil, err
	}

	stopIDsByCode, err := LoadStops(stops)
	if err != nil {
		return nil, err
	}

	return NewIndexFromMaps(tripsByShortName, stopIDsByCode), nil
}

// LoadTrips creates a trip_short_name → Trip lookup table.
// For duplicate short names the last row wins.
func LoadTrips(trips io.Reader) (map[string]*Trip, error) {
	var rows []tripRow
	r := mcsv.NewReader(trips, "trips")
	if err := decode(r, &rows); err != nil {
		return nil, fmt.Errorf("trips: %w", err)
	}

	m := make(map[string]*Trip, len(rows))
	invalid := r.Skipped()
	for _, row := range rows {
		direction, err := strconv.ParseUint(row.DirectionID, 10, 8)
		if err != nil || row.ShortName == "" || row.TripID == "" {
			invalid++
			continue
		}

		m[row.ShortName] = &Trip{
			RouteID:     row.RouteID,
			TripID:      row.TripID,
			ShortName:   row.ShortName,
			DirectionID: uint8(direction),
		}
	}

	if invalid > 0 {
		slog.Warn("Skipped invalid trips", "count", invalid)
	}
	return m, nil
}

// LoadStops creates a stop_code → stop_id lookup table.
func LoadStops(stops io.Reader) (map[string]string, error) {
	var rows []stopRow
	r := mcsv.NewReader(stops, "stops")
	if err := decode(r, &rows); err != nil {
		return nil, fmt.Errorf("stops: %w", err)
	}

	m := make(map[string]string, len(rows))
	invalid := r.Skipped()
	for _, row := range rows {
		if row.StopCode == "" || row.StopID == "" {
			invalid++
			continue
		}
		m[row.StopCode] = row.StopID
	}

	if invalid > 0 {
		slog.Warn("Skipped invalid stops", "count", invalid)
	}
	return m, nil
}

func decode(r *mcsv.Reader, out any) error {
	err := gocsv.UnmarshalCSV(r, out)
	if errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return nil
	}
	return err
}
