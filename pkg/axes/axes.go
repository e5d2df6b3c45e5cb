// Package axes classifies the declared acquisition axes into an iteration
// axis pattern: the ordered subset of position, channel and time that varies.
package axes

import (
	"errors"
	"fmt"
	"strings"

	"nd2array/internal/models"
)

var (
	// ErrUnrecognizedPattern is returned when the declared sizes do not map
	// onto a subset of position, channel and time
	ErrUnrecognizedPattern = errors.New("unrecognized axis pattern")

	// ErrMissingSensor is returned when x or y is not declared
	ErrMissingSensor = errors.New("sensor dimensions missing")
)

// Axis is one of the iterated acquisition dimensions
type Axis int

const (
	Position Axis = iota
	Channel
	Time
)

// canonical is the fixed nesting order, outermost first
const canonical = "mct"

// Symbol returns the single-letter pattern symbol of the axis, '?' for an
// unknown axis
func (a Axis) Symbol() byte {
	if a < 0 || int(a) >= len(canonical) {
		return '?'
	}
	return canonical[a]
}

func (a Axis) String() string {
	switch a {
	case Position:
		return "position"
	case Channel:
		return "channel"
	case Time:
		return "time"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Pattern is the iteration axis pattern, a subsequence of "mct".
// The empty pattern denotes a single static frame.
type Pattern string

// ParsePattern validates s as a non-repeating subsequence of "mct"
func ParsePattern(s string) (Pattern, error) {
	last := -1
	for i := 0; i < len(s); i++ {
		pos := strings.IndexByte(canonical, s[i])
		if pos < 0 || pos <= last {
			return "", fmt.Errorf("%w: %q", ErrUnrecognizedPattern, s)
		}
		last = pos
	}
	return Pattern(s), nil
}

// Axes returns the varying axes, outermost (slowest) first
func (p Pattern) Axes() []Axis {
	out := make([]Axis, 0, len(p))
	for i := 0; i < len(p); i++ {
		out = append(out, Axis(strings.IndexByte(canonical, p[i])))
	}
	return out
}

// Has reports whether the axis varies in this pattern
func (p Pattern) Has(a Axis) bool {
	return strings.IndexByte(string(p), a.Symbol()) >= 0
}

// Static reports whether the pattern describes a single frame
func (p Pattern) Static() bool {
	return p == ""
}

// Classification is the pattern together with the extents of the varying axes.
// Extents of axes that do not vary are zero.
type Classification struct {
	Pattern    Pattern
	Positions  int
	Channels   int
	TimePoints int
}

// Extent returns the declared extent of a varying axis, or 0
func (c Classification) Extent(a Axis) int {
	switch a {
	case Position:
		return c.Positions
	case Channel:
		return c.Channels
	case Time:
		return c.TimePoints
	}
	return 0
}

// Extents returns the extents of the pattern's axes in pattern order
func (c Classification) Extents() []int {
	axes := c.Pattern.Axes()
	out := make([]int, len(axes))
	for i, a := range axes {
		out[i] = c.Extent(a)
	}
	return out
}

// FrameCount is the number of frames the pattern implies
func (c Classification) FrameCount() int {
	n := 1
	for _, e := range c.Extents() {
		n *= e
	}
	return n
}

// Classify derives the iteration axis pattern from the declared axis sizes.
//
// The legacy position symbol is checked before the canonical one. When both
// vary the input is rejected: which one the reader iterates is not known.
// Any other axis besides x and y that varies is rejected as well.
func Classify(sizes models.AxisSizes) (Classification, error) {
	var c Classification

	if _, ok := models.SensorOf(sizes); !ok {
		return c, fmt.Errorf("%w: sizes %s", ErrMissingSensor, sizes)
	}

	for axis := range sizes {
		switch axis {
		case models.AxisX, models.AxisY, models.AxisChannel, models.AxisTime,
			models.AxisPosition, models.AxisPositionLegacy:
		default:
			if sizes.Varies(axis) {
				return c, fmt.Errorf("%w: axis %q varies (extent %d)", ErrUnrecognizedPattern, axis, sizes[axis])
			}
		}
	}

	var b strings.Builder

	legacy := sizes.Varies(models.AxisPositionLegacy)
	current := sizes.Varies(models.AxisPosition)
	switch {
	case legacy && current:
		return c, fmt.Errorf("%w: both %q (%d) and %q (%d) vary", ErrUnrecognizedPattern,
			models.AxisPositionLegacy, sizes[models.AxisPositionLegacy],
			models.AxisPosition, sizes[models.AxisPosition])
	case legacy:
		b.WriteByte(Position.Symbol())
		c.Positions = sizes[models.AxisPositionLegacy]
	case current:
		b.WriteByte(Position.Symbol())
		c.Positions = sizes[models.AxisPosition]
	}

	if sizes.Varies(models.AxisChannel) {
		b.WriteByte(Channel.Symbol())
		c.Channels = sizes[models.AxisChannel]
	}

	if sizes.Varies(models.AxisTime) {
		b.WriteByte(Time.Symbol())
		c.TimePoints = sizes[models.AxisTime]
	}

	c.Pattern = Pattern(b.String())
	return c, nil
}
