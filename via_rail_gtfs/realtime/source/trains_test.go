// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/util/http2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
	"VIA-45 2024-01-01": {
		"departed": true,
		"arrived": false,
		"from": "Montréal",
		"to": "Ottawa",
		"instance": "2024-01-01",
		"speed": 120,
		"lat": 45.31,
		"lng": -74.64,
		"direction": 270.5,
		"poll": "2024-01-01T18:05:12.345-05:00",
		"times": [
			{
				"station": "Montréal",
				"code": "MTRL",
				"estimated": "18:00",
				"scheduled": "2024-01-01T18:00:00-05:00",
				"eta": "ARR",
				"departure": {"estimated": "2024-01-01T18:01:00-05:00", "scheduled": "2024-01-01T18:00:00-05:00"}
			},
			{
				"station": "Ottawa",
				"code": "OTTW",
				"estimated": "20:00",
				"scheduled": "2024-01-01T19:55:00-05:00",
				"eta": "1h55",
				"arrival": {"scheduled": "2024-01-01T19:55:00-05:00"}
			}
		]
	},
	"VIA-2 2023-12-30": {
		"departed": false,
		"arrived": false,
		"from": "Vancouver",
		"to": "Toronto",
		"instance": "2023-12-30",
		"speed": null,
		"lat": null,
		"lng": null,
		"times": []
	}
}`

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func optionsFor(srv *httptest.Server) FetchOptions {
	o := NewFetchOptions()
	o.URL = srv.URL
	return o
}

func TestFetchTrains(t *testing.T) {
	var requests atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFeed))
	})

	trains, err := FetchTrains(context.Background(), srv.Client(), optionsFor(srv))
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())
	require.Len(t, trains, 2)

	train := trains["VIA-45 2024-01-01"]
	require.NotNil(t, train)
	assert.True(t, train.Departed)
	assert.Equal(t, "Ottawa", train.To)
	require.NotNil(t, train.Speed)
	assert.Equal(t, 120.0, *train.Speed)
	assert.True(t, train.HasPosition())
	require.NotNil(t, train.Direction)
	assert.Equal(t, float32(270.5), *train.Direction)
	require.NotNil(t, train.Poll)
	require.Len(t, train.Times, 2)
	assert.Equal(t, "MTRL", train.Times[0].Code)
	assert.Nil(t, train.Times[0].Arrival)
	require.NotNil(t, train.Times[0].Departure)
	require.NotNil(t, train.Times[0].Departure.Estimated)
	assert.Equal(t, "2024-01-01T18:01:00-05:00", *train.Times[0].Departure.Estimated)
	require.NotNil(t, train.Times[1].Arrival)
	assert.Nil(t, train.Times[1].Arrival.Estimated)

	other := trains["VIA-2 2023-12-30"]
	require.NotNil(t, other)
	assert.Nil(t, other.Speed)
	assert.False(t, other.HasPosition())
	assert.Nil(t, other.Poll)
	assert.Empty(t, other.Times)
}

func TestFetchTrainsCustomUserAgent(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tests", r.Header.Get("User-Agent"))
		w.Write([]byte(`{}`))
	})

	o := optionsFor(srv)
	o.UserAgent = "tests"
	trains, err := FetchTrains(context.Background(), srv.Client(), o)
	require.NoError(t, err)
	assert.Empty(t, trains)
}

func TestFetchTrainsStatusError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := FetchTrains(context.Background(), srv.Client(), optionsFor(srv))
	var httpErr *http2.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
}

func TestFetchTrainsInvalidText(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xc3, 0x28})
	})

	_, err := FetchTrains(context.Background(), srv.Client(), optionsFor(srv))
	assert.ErrorIs(t, err, http2.ErrInvalidText)
}

func TestFetchTrainsInvalidShape(t *testing.T) {
	tests := map[string]string{
		"array":          `[{"departed": true}]`,
		"not json":       `<html>maintenance</html>`,
		"wrong field":    `{"VIA-1 2024-01-01": {"times": "soon"}}`,
		"truncated body": `{"VIA-1 2024-01-01": {`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			trains, err := FetchTrains(context.Background(), srv.Client(), optionsFor(srv))
			assert.Error(t, err)
			assert.Nil(t, trains)
		})
	}
}

func TestFetchTrainsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	o := optionsFor(srv)
	srv.Close()

	_, err := FetchTrains(context.Background(), nil, o)
	assert.Error(t, err)
}

func TestFetchTrainsCancelled(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FetchTrains(ctx, srv.Client(), optionsFor(srv))
	assert.ErrorIs(t, err, context.Canceled)
}
