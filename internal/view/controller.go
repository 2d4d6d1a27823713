// Package view holds the active view mode and drives both renderers
// from it, so map and timeline always describe the same day scope.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"itinerary-view-service/internal/domain"
	"itinerary-view-service/internal/ports"
	"itinerary-view-service/internal/render"
	"itinerary-view-service/internal/timeline"
)

var ErrNoSuchDay = errors.New("selected day does not exist")

// Controller owns the view state of one planning view: the active
// itinerary, the day selection, and the connections toggle. The map
// surface it draws on is acquired once and reused across redraws.
type Controller struct {
	engine  *render.Engine
	surface ports.MapSurface

	mu              sync.Mutex
	itinerary       *domain.Itinerary
	selection       domain.ViewSelection
	showConnections bool
	last            *render.Result
}

func NewController(engine *render.Engine, surface ports.MapSurface) *Controller {
	return &Controller{
		engine:    engine,
		surface:   surface,
		selection: domain.AllDays,
	}
}

// SetItinerary replaces the active plan wholesale and redraws. A
// selection pointing past the new plan's last day falls back to the
// whole plan.
func (c *Controller) SetItinerary(ctx context.Context, it *domain.Itinerary) *render.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.itinerary = it
	if !c.selection.ValidFor(c.dayCountLocked()) {
		c.selection = domain.AllDays
	}
	return c.redrawLocked(ctx)
}

// Select switches the day scope and connections toggle, then redraws.
func (c *Controller) Select(ctx context.Context, sel domain.ViewSelection, showConnections bool) (*render.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !sel.ValidFor(c.dayCountLocked()) {
		return nil, fmt.Errorf("select view: day %d of %d: %w", sel.DayNumber(), c.dayCountLocked(), ErrNoSuchDay)
	}

	c.selection = sel
	c.showConnections = showConnections
	return c.redrawLocked(ctx), nil
}

// Timeline projects the current state chronologically. Computed on
// demand; it shares the selection the map was drawn with.
func (c *Controller) Timeline() *timeline.Timeline {
	c.mu.Lock()
	it := c.itinerary
	sel := c.selection
	show := c.showConnections
	c.mu.Unlock()

	return timeline.Render(it, sel, show)
}

// Selection returns the active selection and connections toggle.
func (c *Controller) Selection() (domain.ViewSelection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection, c.showConnections
}

// LastResult returns the outcome of the most recent map render.
func (c *Controller) LastResult() *render.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Wait blocks until in-flight segment upgrades from the latest render
// have settled.
func (c *Controller) Wait() {
	c.engine.Wait()
}

// Close tears down the render engine's overlays and in-flight work.
// The surface itself is disposed by whoever created it.
func (c *Controller) Close() {
	c.engine.Close()
}

func (c *Controller) dayCountLocked() int {
	if c.itinerary == nil {
		return 0
	}
	return len(c.itinerary.Days)
}

// redrawLocked renders the map projection of the current state. In
// single-day mode the engine receives a pre-filtered one-day
// itinerary, so the same engine serves both call sites and single-day
// views always use palette slot 0 with unprefixed labels.
func (c *Controller) redrawLocked(ctx context.Context) *render.Result {
	it := c.itinerary
	if it != nil && !c.selection.IsAll() {
		if sub, ok := it.DaySubset(c.selection.DayNumber()); ok {
			it = sub
		}
	}

	res := c.engine.Render(ctx, c.surface, it, domain.AllDays, render.Options{
		ShowConnections: c.showConnections,
	})
	c.last = res
	return res
}
