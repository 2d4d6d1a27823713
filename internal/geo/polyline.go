package geo

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-polyline"

	"itinerary-view-service/internal/domain"
)

// EncodePath encodes a coordinate sequence as a Google-style polyline.
// Segment caches store geometry in this form.
func EncodePath(path []domain.Coordinates) string {
	coords := make([][]float64, 0, len(path))
	for _, c := range path {
		coords = append(coords, []float64{c.Lat, c.Lng})
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePath decodes an encoded polyline into a coordinate sequence.
func DecodePath(encoded string) ([]domain.Coordinates, error) {
	if encoded == "" {
		return nil, errors.New("decode path: empty polyline")
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}

	out := make([]domain.Coordinates, 0, len(coords))
	for _, c := range coords {
		if len(c) != 2 {
			return nil, errors.New("decode path: malformed coordinate pair")
		}
		out = append(out, domain.Coordinates{Lat: c[0], Lng: c[1]})
	}
	return out, nil
}
