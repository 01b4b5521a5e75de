// Package abstract is a thin client for the Abstract API endpoints used by
// the enrichment job: geolocation by IP and public holidays by country and
// date. Both endpoints authenticate with an API key query parameter.
package abstract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/friendlyhq/friendly/internal/model"
)

// ErrNoAPIKey is returned when a lookup is attempted without the
// corresponding key configured. The enrichment job treats it like any
// other upstream failure: log and move on.
var ErrNoAPIKey = errors.New("abstract: api key not configured")

type Client struct {
	GeoURL     string // geolocation endpoint base
	HolidayURL string // holidays endpoint base
	GeoKey     string
	HolidayKey string

	httpClient *http.Client
}

func NewClient(geoURL, holidayURL, geoKey, holidayKey string) *Client {
	return &Client{
		GeoURL:     geoURL,
		HolidayURL: holidayURL,
		GeoKey:     geoKey,
		HolidayKey: holidayKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Geolocate looks up geolocation attributes for an IP address. The decoded
// response is returned as-is so the caller can persist whatever the API
// provided without committing to its schema.
func (c *Client) Geolocate(ctx context.Context, ip string) (model.JSONMap, error) {
	if c.GeoKey == "" {
		return nil, ErrNoAPIKey
	}
	params := url.Values{}
	params.Set("api_key", c.GeoKey)
	params.Set("ip_address", ip)

	body, err := c.get(ctx, c.GeoURL, params)
	if err != nil {
		return nil, err
	}
	var data model.JSONMap
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal geo response: %w", err)
	}
	return data, nil
}

// CountryCode extracts the country_code field from a geolocation result,
// returning "" when absent.
func CountryCode(geo model.JSONMap) string {
	code, _ := geo["country_code"].(string)
	return code
}

// Holidays looks up the public holidays for a country on the given date.
// The API returns a JSON array (empty on an ordinary day); it is wrapped
// under a "holidays" key so it fits the user's key/value holiday column.
func (c *Client) Holidays(ctx context.Context, countryCode string, day time.Time) (model.JSONMap, error) {
	if c.HolidayKey == "" {
		return nil, ErrNoAPIKey
	}
	params := url.Values{}
	params.Set("api_key", c.HolidayKey)
	params.Set("country", countryCode)
	params.Set("year", fmt.Sprintf("%d", day.Year()))
	params.Set("month", fmt.Sprintf("%d", int(day.Month())))
	params.Set("day", fmt.Sprintf("%d", day.Day()))

	body, err := c.get(ctx, c.HolidayURL, params)
	if err != nil {
		return nil, err
	}
	var holidays []any
	if err := json.Unmarshal(body, &holidays); err != nil {
		// Some error payloads come back as objects rather than arrays.
		var obj model.JSONMap
		if err2 := json.Unmarshal(body, &obj); err2 == nil {
			return obj, nil
		}
		return nil, fmt.Errorf("unmarshal holiday response: %w", err)
	}
	return model.JSONMap{"holidays": holidays}, nil
}

func (c *Client) get(ctx context.Context, base string, params url.Values) ([]byte, error) {
	fullURL := fmt.Sprintf("%s?%s", base, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		// Hide the API key when logging the failing endpoint.
		log.Printf("abstract: %s returned status %d", base, resp.StatusCode)
		return nil, fmt.Errorf("abstract api error: status %d", resp.StatusCode)
	}
	return body, nil
}
