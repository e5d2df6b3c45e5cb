package assembly

import (
	"fmt"

	"nd2array/pkg/axes"
)

// Odometer is a mixed-radix counter over the varying axes of a pattern.
// The last axis is the fastest digit; when it wraps it carries into the
// axis to its left, up to the first (slowest) axis.
type Odometer struct {
	axes    []axes.Axis
	extents []int
	index   []int
	done    bool
}

// NewOdometer creates an odometer positioned at the all-zero index.
// Every extent must be at least one.
func NewOdometer(axs []axes.Axis, extents []int) (*Odometer, error) {
	if len(axs) != len(extents) {
		return nil, fmt.Errorf("%w: %d axes, %d extents", ErrInvalidExtent, len(axs), len(extents))
	}
	for i, e := range extents {
		if e < 1 {
			return nil, fmt.Errorf("%w: %s extent %d", ErrInvalidExtent, axs[i], e)
		}
	}

	return &Odometer{
		axes:    append([]axes.Axis(nil), axs...),
		extents: append([]int(nil), extents...),
		index:   make([]int, len(axs)),
	}, nil
}

// Levels is the number of digits
func (o *Odometer) Levels() int {
	return len(o.axes)
}

// Axis returns the axis of a digit
func (o *Odometer) Axis(level int) axes.Axis {
	return o.axes[level]
}

// Index returns a copy of the current digits, slowest first
func (o *Odometer) Index() []int {
	return append([]int(nil), o.index...)
}

// At returns the current digit of an axis, or -1 if the axis is not counted
func (o *Odometer) At(a axes.Axis) int {
	for l, ax := range o.axes {
		if ax == a {
			return o.index[l]
		}
	}
	return -1
}

// Steps is the total number of positions the odometer visits
func (o *Odometer) Steps() int {
	n := 1
	for _, e := range o.extents {
		n *= e
	}
	return n
}

// Done reports whether the odometer has moved past its last position
func (o *Odometer) Done() bool {
	return o.done
}

// Advance moves to the next position. It returns the level of the outermost
// digit that was incremented: Levels()-1 when no carry happened, smaller
// values when inner digits wrapped. It returns -1 when every digit wrapped,
// after which Done reports true.
func (o *Odometer) Advance() int {
	if o.done {
		return -1
	}

	for l := len(o.index) - 1; l >= 0; l-- {
		o.index[l]++
		if o.index[l] < o.extents[l] {
			return l
		}
		o.index[l] = 0
	}

	o.done = true
	return -1
}

// Reset returns the odometer to the all-zero index
func (o *Odometer) Reset() {
	for l := range o.index {
		o.index[l] = 0
	}
	o.done = false
}
