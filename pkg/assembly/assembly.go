// Package assembly rebuilds the nested position/channel/time structure of an
// acquisition from the flat frame sequence produced by an image reader.
//
// Frames must arrive in odometer order: the last axis of the pattern cycles
// fastest and carries into the axis to its left. The sequence carries no
// markers, so the frame count is checked against the product of extents.
package assembly

import (
	"errors"
	"fmt"
	"iter"

	"gonum.org/v1/gonum/mat"

	"nd2array/internal/models"
	"nd2array/pkg/axes"
)

var (
	// ErrFrameCountMismatch is returned when the number of frames pulled
	// differs from the number the pattern implies
	ErrFrameCountMismatch = errors.New("frame count mismatch")

	// ErrFrameShape is returned for a frame whose dimensions differ from the sensor
	ErrFrameShape = errors.New("frame shape does not match sensor")

	// ErrInvalidExtent is returned when a varying axis has no extent or the
	// channel names do not cover the channel axis
	ErrInvalidExtent = errors.New("invalid axis extent")
)

// FrameCountError details a frame count mismatch
type FrameCountError struct {
	Pattern axes.Pattern
	Want    int
	Got     int
}

func (e *FrameCountError) Error() string {
	return fmt.Sprintf("frame count mismatch for pattern %q: expected %d frames, got %d", e.Pattern, e.Want, e.Got)
}

// Is makes errors.Is(err, ErrFrameCountMismatch) hold
func (e *FrameCountError) Is(target error) bool {
	return target == ErrFrameCountMismatch
}

// Assemble consumes frames once, in order, and stores each one under the key
// the odometer currently points at. Frames are checked to be sensor.Height
// rows by sensor.Width columns.
//
// The whole sequence is always drained, so a mismatch reports the real
// number of frames. No structure is returned on error.
func Assemble(c axes.Classification, names []string, sensor models.Sensor, frames iter.Seq2[*mat.Dense, error]) (*Node, error) {
	axs := c.Pattern.Axes()
	names = append([]string(nil), names...)

	if c.Pattern.Has(axes.Channel) && len(names) != c.Channels {
		return nil, fmt.Errorf("%w: %d channel names for %d channels", ErrInvalidExtent, len(names), c.Channels)
	}

	odo, err := NewOdometer(axs, c.Extents())
	if err != nil {
		return nil, err
	}

	root := newNode(axs, 0, names)
	want := odo.Steps()
	got := 0

	for frame, err := range frames {
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", got, err)
		}
		got++

		if odo.Done() {
			continue
		}

		if frame == nil {
			return nil, fmt.Errorf("%w: frame %d is empty", ErrFrameShape, got-1)
		}
		if r, cols := frame.Dims(); r != sensor.Height || cols != sensor.Width {
			return nil, fmt.Errorf("%w: frame %d is %dx%d, sensor is %s", ErrFrameShape, got-1, cols, r, sensor)
		}

		place(root, axs, names, odo.Index(), frame)
		odo.Advance()
	}

	if got != want {
		return nil, &FrameCountError{Pattern: c.Pattern, Want: want, Got: got}
	}

	return root, nil
}

func newNode(axs []axes.Axis, level int, names []string) *Node {
	if level == len(axs) {
		return &Node{leaf: true}
	}
	n := &Node{axis: axs[level]}
	if n.axis == axes.Channel {
		n.names = names
	}
	return n
}

// place stores frame at idx, appending children on first use
func place(root *Node, axs []axes.Axis, names []string, idx []int, frame *mat.Dense) {
	cur := root
	for level, i := range idx {
		if i == len(cur.children) {
			cur.children = append(cur.children, newNode(axs, level+1, names))
		}
		cur = cur.children[i]
	}
	cur.frame = frame
}
