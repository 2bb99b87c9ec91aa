// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

// Package mcsv provides a CSV reader which silently skips malformed rows.
//
// The Reader satisfies gocsv.CSVReader, so it can be handed to gocsv.UnmarshalCSV
// to decode a file where a single broken row must not invalidate the whole dataset.
package mcsv

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"
)

const byteOrderMark = "\ufeff"

type Reader struct {
	r       *csv.Reader
	name    string
	header  bool
	skipped int
}

// NewReader wraps r. The name is only used for logging.
func NewReader(r io.Reader, name string) *Reader {
	return &Reader{r: csv.NewReader(r), name: name}
}

// Read returns the next well-formed row. Rows with a different number of fields
// than the header or with broken quoting are skipped. A malformed header
// makes the whole file read as empty.
func (r *Reader) Read() ([]string, error) {
	for {
		row, err := r.r.Read()

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			if !r.header {
				slog.Debug("Malformed CSV header", "file", r.name, "error", err)
				return nil, io.EOF
			}
			r.skipped++
			slog.Debug("Skipping malformed CSV row", "file", r.name, "line", parseErr.StartLine, "error", parseErr.Err)
			continue
		} else if err != nil {
			return nil, err
		}

		if !r.header {
			r.header = true
			if len(row) > 0 {
				row[0] = strings.TrimPrefix(row[0], byteOrderMark)
			}
		}
		return row, nil
	}
}

func (r *Reader) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		} else if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Skipped returns the number of malformed rows dropped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}
