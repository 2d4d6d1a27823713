package render

import (
	"fmt"
	"strconv"
)

// Per-day marker palette, cycled by day index within the rendered
// scope. Single-day views always land on slot 0.
var dayPalette = []string{
	"#1E88E5", // blue
	"#8E24AA", // purple
	"#F4511E", // deep orange
	"#00897B", // teal
	"#6D4C41", // brown
	"#3949AB", // indigo
	"#C0CA33", // lime
}

const (
	colorStart     = "#2E7D32" // green
	colorReturn    = "#C62828" // red
	colorConnector = "#757575" // gray, dashed inter-day connectors
)

// StopLabel computes the marker text for a drawable stop. The timeline
// uses the same function, so the two views stay cross-referenceable.
//
// Start point: "P" (or "<day>P" in multi-day scope); return leg: "A"
// (or "<day>A"); otherwise the 1-based position within the day
// (or "<day>.<position>").
func StopLabel(dayNumber, position int, multiDay, isStart, isReturn bool) string {
	switch {
	case isStart:
		if multiDay {
			return fmt.Sprintf("%dP", dayNumber)
		}
		return "P"
	case isReturn:
		if multiDay {
			return fmt.Sprintf("%dA", dayNumber)
		}
		return "A"
	}
	if multiDay {
		return fmt.Sprintf("%d.%d", dayNumber, position)
	}
	return strconv.Itoa(position)
}

// StopColor picks the marker color: green for the start point, red for
// the return stop, otherwise the day's palette color.
func StopColor(dayIndex int, isStart, isReturn bool) string {
	switch {
	case isStart:
		return colorStart
	case isReturn:
		return colorReturn
	}
	return DayColor(dayIndex)
}

// DayColor returns the palette color for a 0-based day index.
func DayColor(dayIndex int) string {
	return dayPalette[dayIndex%len(dayPalette)]
}
