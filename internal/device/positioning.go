package device

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"placebook/internal/model"
)

const ipAPIBase = "http://ip-api.com/json/"

// FixedPositioner always reports the configured coordinate.
type FixedPositioner struct {
	Coordinate model.Coordinate
	Allowed    bool
}

func (p FixedPositioner) RequestForegroundPermission(ctx context.Context) (model.Permission, error) {
	if !p.Allowed {
		return model.PermissionDenied, nil
	}
	return model.PermissionGranted, nil
}

func (p FixedPositioner) CurrentPosition(ctx context.Context) (model.Coordinate, error) {
	return p.Coordinate, nil
}

// IPPositioner resolves the approximate position of the public IP address.
type IPPositioner struct {
	baseURL    string
	allowed    bool
	httpClient *http.Client
}

// NewIPPositioner creates a positioner. An empty baseURL uses ip-api.com.
func NewIPPositioner(baseURL string, allowed bool) *IPPositioner {
	if baseURL == "" {
		baseURL = ipAPIBase
	}
	return &IPPositioner{
		baseURL:    baseURL,
		allowed:    allowed,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// RequestForegroundPermission reports the decision taken during onboarding.
func (p *IPPositioner) RequestForegroundPermission(ctx context.Context) (model.Permission, error) {
	if !p.allowed {
		return model.PermissionDenied, nil
	}
	return model.PermissionGranted, nil
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentPosition queries the lookup service.
func (p *IPPositioner) CurrentPosition(ctx context.Context) (model.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?fields=status,message,lat,lon", nil)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Coordinate{}, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.Coordinate{}, fmt.Errorf("JSON decode error: %w", err)
	}
	if result.Status != "success" {
		return model.Coordinate{}, fmt.Errorf("lookup failed: %s", result.Message)
	}

	return model.Coordinate{Latitude: result.Lat, Longitude: result.Lon}, nil
}
