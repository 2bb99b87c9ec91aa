// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package http2

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"
)

var ErrInvalidText = errors.New("response body is not valid UTF-8 text")

type Error struct {
	URL, Status string
	StatusCode  int
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.URL, e.Status)
}

// IsTemporary returns true if the status code indicates a failure that is worth retrying.
func (e Error) IsTemporary() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func Check(r *http.Response) error {
	if r.StatusCode >= 400 && r.StatusCode < 600 {
		io.Copy(io.Discard, r.Body)
		r.Body.Close()
		return &Error{
			URL:        r.Request.URL.Redacted(),
			Status:     r.Status,
			StatusCode: r.StatusCode,
		}
	}
	return nil
}

// GetText performs the request and returns the response body,
// ensuring it is valid UTF-8.
func GetText(client *http.Client, req *http.Request) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	} else if err = Check(resp); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.URL.Redacted(), err)
	}

	if !utf8.Valid(body) {
		return nil, fmt.Errorf("%s: %w", req.URL.Redacted(), ErrInvalidText)
	}
	return body, nil
}

func GetJSON[T any](client *http.Client, req *http.Request) (*T, error) {
	body, err := GetText(client, req)
	if err != nil {
		return nil, err
	}

	content := new(T)
	if err := json.Unmarshal(body, content); err != nil {
		return nil, fmt.Errorf("%s: %w", req.URL.Redacted(), err)
	}
	return content, nil
}
