package models

import (
	"fmt"
	"sort"
	"strings"
)

// Axis symbols as reported by the image reader.
const (
	AxisX = "x"
	AxisY = "y"

	// AxisChannel is the wavelength/channel axis
	AxisChannel = "c"

	// AxisTime is the time-point axis
	AxisTime = "t"

	// AxisPosition is the canonical XY stage position axis
	AxisPosition = "m"

	// AxisPositionLegacy is the position axis symbol used by older
	// acquisition software versions
	AxisPositionLegacy = "v"
)

// AxisSizes maps an axis symbol to its declared extent
type AxisSizes map[string]int

// Extent returns the declared extent of an axis and whether it was declared at all
func (s AxisSizes) Extent(axis string) (int, bool) {
	n, ok := s[axis]
	return n, ok
}

// Varies reports whether the axis is declared with an extent greater than one
func (s AxisSizes) Varies(axis string) bool {
	return s[axis] > 1
}

// String renders the sizes in a stable key order, e.g. "c=2 t=3 x=512 y=512"
func (s AxisSizes) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, s[k])
	}
	return strings.Join(parts, " ")
}

// Sensor holds the dimensions of the camera sensor (or ROI) in pixels
type Sensor struct {
	// Width is the extent along x
	Width int

	// Height is the extent along y
	Height int
}

// SensorOf reads the sensor dimensions from the x and y axes
func SensorOf(s AxisSizes) (Sensor, bool) {
	w, okX := s[AxisX]
	h, okY := s[AxisY]
	if !okX || !okY || w <= 0 || h <= 0 {
		return Sensor{}, false
	}
	return Sensor{Width: w, Height: h}, true
}

func (s Sensor) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
