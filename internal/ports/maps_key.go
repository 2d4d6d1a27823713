package ports

import "context"

// Source of the mapping SDK credential held by the backend.
type MapsKeySource interface {
	MapsAPIKey(ctx context.Context) (string, error)
}
