package util

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// googleGeocodeResponse is the subset of the Google Geocoding API response
// the server consumes
type googleGeocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// GeocodeResult is a resolved address
type GeocodeResult struct {
	FormattedAddress string  `json:"formatted_address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

// GeocodeAddress resolves an address string to coordinates using the Google
// Geocoding API. An empty address returns (nil, nil).
func GeocodeAddress(address, apiKey string) (*GeocodeResult, error) {
	if address == "" {
		return nil, nil
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY not configured")
	}

	params := url.Values{}
	params.Add("address", address)
	params.Add("key", apiKey)
	requestURL := fmt.Sprintf("https://maps.googleapis.com/maps/api/geocode/json?%s", params.Encode())

	resp, err := http.Get(requestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to call geocoding API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result googleGeocodeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Status != "OK" || len(result.Results) == 0 {
		return nil, fmt.Errorf("no results for address: %s (status %s)", address, result.Status)
	}

	first := result.Results[0]
	return &GeocodeResult{
		FormattedAddress: first.FormattedAddress,
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
	}, nil
}
