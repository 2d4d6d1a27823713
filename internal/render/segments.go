package render

import (
	"context"
	"log"

	"itinerary-view-service/internal/domain"
	"itinerary-view-service/internal/geo"
)

// A stop pair awaiting routed geometry.
type pendingSegment struct {
	key    segmentKey
	origin domain.Coordinates
	dest   domain.Coordinates
}

// resolveSegments upgrades placeholder lines to routed geometry.
//
// Requests are fed to a bounded worker pool through an ordered queue,
// so under a slow backend the earliest stop pairs resolve first. Each
// completion lands only in its own segment slot; out-of-order
// completion can never touch another pair's line.
func (e *Engine) resolveSegments(ctx context.Context, set *OverlaySet, pending []pendingSegment) {
	if len(pending) == 0 {
		return
	}

	queue := make(chan pendingSegment)

	workers := e.workers
	if workers > len(pending) {
		workers = len(pending)
	}
	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for seg := range queue {
				e.resolveOne(ctx, set, seg)
			}
		}()
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer close(queue)
		for _, seg := range pending {
			select {
			case <-ctx.Done():
				return
			case queue <- seg:
			}
		}
	}()
}

// resolveOne obtains the best-available geometry for one pair. Any
// failure keeps the straight placeholder as the terminal state for this
// cycle; it is logged, never surfaced as a blocking error.
func (e *Engine) resolveOne(ctx context.Context, set *OverlaySet, seg pendingSegment) {
	if ctx.Err() != nil {
		return
	}

	okey := seg.origin.Key()
	dkey := seg.dest.Key()

	if e.cache != nil {
		encoded, ok, err := e.cache.Get(ctx, okey, dkey)
		if err != nil {
			log.Printf("render: segment cache get %s -> %s: %v", okey, dkey, err)
		} else if ok {
			path, err := geo.DecodePath(encoded)
			if err == nil && len(path) >= 2 {
				set.upgradeSegment(seg.key, path)
				return
			}
			log.Printf("render: segment cache entry %s -> %s is malformed, refetching", okey, dkey)
		}
	}

	path, err := e.routes.RouteBetweenPoints(ctx, seg.origin, seg.dest)
	if err != nil {
		log.Printf("render: segment %s -> %s keeps straight line: %v", okey, dkey, err)
		return
	}
	if len(path) < 2 {
		log.Printf("render: segment %s -> %s keeps straight line: backend returned %d points", okey, dkey, len(path))
		return
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, okey, dkey, geo.EncodePath(path)); err != nil {
			log.Printf("render: segment cache put %s -> %s: %v", okey, dkey, err)
		}
	}

	set.upgradeSegment(seg.key, path)
}
