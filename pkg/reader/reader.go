// Package reader defines the frame source an acquisition is converted from,
// along with an in-memory source and a directory-of-images source.
package reader

import (
	"errors"
	"iter"

	"gonum.org/v1/gonum/mat"

	"nd2array/internal/models"
)

var (
	// ErrClosed is returned when frames are pulled from a closed reader
	ErrClosed = errors.New("reader is closed")

	// ErrNoPlane is returned for a plane index without a name
	ErrNoPlane = errors.New("no such plane")
)

// CalibrationKey is the metadata key holding the pixel size in microns
const CalibrationKey = "calibration_um"

// Reader is an opened acquisition.
//
// Frames yields every frame once, lazily, each as a distinct matrix of
// sensor height rows by sensor width columns. Frames must be emitted in
// odometer order over the varying axes: time fastest, then channel, then
// position. Close releases the underlying resources and may be called more
// than once.
type Reader interface {
	Sizes() models.AxisSizes
	Calibration() (float64, bool)
	PlaneName(i int) (string, error)
	Frames() iter.Seq2[*mat.Dense, error]
	Close() error
}
