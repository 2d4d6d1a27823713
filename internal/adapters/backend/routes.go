package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"itinerary-view-service/internal/domain"
	"itinerary-view-service/internal/geo"
	"itinerary-view-service/internal/platform/obs"
)

// The routing endpoint answers with either a raw coordinate path or an
// encoded polyline, depending on backend version.
type routeResponse struct {
	Path []struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"path"`
	EncodedPolyline string `json:"encodedPolyline"`
}

// RouteBetweenPoints fetches detailed road geometry for one stop pair.
func (c *Client) RouteBetweenPoints(
	ctx context.Context,
	origin, destination domain.Coordinates,
) (_ []domain.Coordinates, err error) {
	defer obs.Time(ctx, "backend.RouteBetweenPoints")(&err)

	endpoint := c.baseURL + "/routes/between"

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
		q.Set("destination", fmt.Sprintf("%f,%f", destination.Lat, destination.Lng))
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get route between points: %w", err)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}

	var path []domain.Coordinates
	if decoded.EncodedPolyline != "" {
		path, err = geo.DecodePath(decoded.EncodedPolyline)
		if err != nil {
			return nil, fmt.Errorf("route response: %w", err)
		}
	} else {
		path = make([]domain.Coordinates, 0, len(decoded.Path))
		for _, p := range decoded.Path {
			path = append(path, domain.Coordinates{Lat: p.Lat, Lng: p.Lng})
		}
	}

	if len(path) < 2 {
		return nil, fmt.Errorf("route response: %d points is not a usable path", len(path))
	}

	return path, nil
}

type mapsKeyResponse struct {
	APIKey string `json:"api_key"`
}

// MapsAPIKey fetches the mapping SDK credential held by the backend.
func (c *Client) MapsAPIKey(ctx context.Context) (_ string, err error) {
	defer obs.Time(ctx, "backend.MapsAPIKey")(&err)

	endpoint := c.baseURL + "/maps/key"

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return "", fmt.Errorf("get maps api key: %w", err)
	}
	defer resp.Body.Close()

	var decoded mapsKeyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode maps key response: %w", err)
	}

	return decoded.APIKey, nil
}
