package ports

import "context"

// Cache of routed segment geometry keyed by a directed coordinate pair.
// Keys are expected to be consistent (domain.Coordinates.Key form)
// by the caller. Geometry is stored as an encoded polyline.
type SegmentCache interface {
	// Fetch cached geometry. ok is false on a miss.
	Get(ctx context.Context, origin, destination string) (geometry string, ok bool, err error)
	// Store geometry for a directed pair, replacing any previous value.
	Put(ctx context.Context, origin, destination, geometry string) error
}
