/*
 * MIT License
 *
 * Copyright (c) 2024 EASL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"droplet_manager/internal/core"
	"droplet_manager/pkg/utils"
)

type serverStats struct {
	Items []struct {
		PlayerCount int `json:"playerCount"`
	} `json:"items"`
}

// HTTPClient reads the active player count from the game panel's stats API.
type HTTPClient struct {
	endpoint   string
	perPage    int
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, perPage int) (*HTTPClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid telemetry base URL %q: %w", baseURL, err)
	}
	if perPage <= 0 {
		perPage = utils.DefaultTelemetryPerPage
	}

	return &HTTPClient{
		endpoint:   strings.TrimSuffix(baseURL, "/") + "/server-stats",
		perPage:    perPage,
		httpClient: &http.Client{Timeout: utils.TelemetryAPITimeout},
	}, nil
}

// ActiveEntities returns the sum of playerCount over the first page of
// servers. Every failure yields zero together with the reason, so callers
// fall back toward downscaling.
func (c *HTTPClient) ActiveEntities(ctx context.Context) (int, error) {
	query := url.Values{}
	query.Set("page", "0")
	query.Set("perPage", strconv.Itoa(c.perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrTelemetryUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrTelemetryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, &core.RemoteCallFailedError{
			Op:         "server-stats",
			StatusCode: resp.StatusCode,
			Reason:     strings.TrimSpace(string(body)),
		}
	}

	var stats serverStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return 0, fmt.Errorf("%w: malformed server-stats response: %v", core.ErrTelemetryUnavailable, err)
	}

	total := 0
	for _, item := range stats.Items {
		if item.PlayerCount > 0 {
			total += item.PlayerCount
		}
	}

	return total, nil
}
