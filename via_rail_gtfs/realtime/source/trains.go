// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"net/http"

	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/util/http2"
)

const (
	DefaultURL       = "https://tsimobile.viarail.ca/data/allData.json"
	DefaultUserAgent = "Catenary"
)

type FetchOptions struct {
	URL       string
	UserAgent string
}

func NewFetchOptions() FetchOptions {
	return FetchOptions{
		URL:       DefaultURL,
		UserAgent: DefaultUserAgent,
	}
}

// FetchTrains makes a single request for the live positions of all VIA Rail trains.
// No retries are attempted; the deadline of ctx is the only timeout besides the client's own.
func FetchTrains(ctx context.Context, client *http.Client, options FetchOptions) (Trains, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, options.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", options.UserAgent)

	trains, err := http2.GetJSON[Trains](client, req)
	if err != nil {
		return nil, err
	}
	return *trains, nil
}
