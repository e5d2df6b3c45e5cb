package reader

import (
	"fmt"
	"iter"

	"gonum.org/v1/gonum/mat"

	"nd2array/internal/models"
)

// Memory is a Reader over frames already held in memory
type Memory struct {
	sizes       models.AxisSizes
	calibration float64
	hasCal      bool
	planes      []string
	frames      []*mat.Dense
	closed      bool
	pulled      int
}

// NewMemory creates an in-memory reader. The calibration is always reported
// as present; use WithoutCalibration for metadata that lacks it.
func NewMemory(sizes models.AxisSizes, calibration float64, planes []string, frames []*mat.Dense) *Memory {
	return &Memory{
		sizes:       sizes,
		calibration: calibration,
		hasCal:      true,
		planes:      planes,
		frames:      frames,
	}
}

// WithoutCalibration makes the reader report no calibration
func (m *Memory) WithoutCalibration() *Memory {
	m.hasCal = false
	return m
}

func (m *Memory) Sizes() models.AxisSizes { return m.sizes }

func (m *Memory) Calibration() (float64, bool) { return m.calibration, m.hasCal }

// PlaneName returns the name of plane i
func (m *Memory) PlaneName(i int) (string, error) {
	if i < 0 || i >= len(m.planes) {
		return "", fmt.Errorf("%w: %d", ErrNoPlane, i)
	}
	return m.planes[i], nil
}

// Frames yields the stored frames in order
func (m *Memory) Frames() iter.Seq2[*mat.Dense, error] {
	return func(yield func(*mat.Dense, error) bool) {
		if m.closed {
			yield(nil, ErrClosed)
			return
		}
		for _, f := range m.frames {
			m.pulled++
			if !yield(f, nil) {
				return
			}
		}
	}
}

// Close marks the reader closed
func (m *Memory) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called
func (m *Memory) Closed() bool { return m.closed }

// Pulled reports how many frames have been yielded so far
func (m *Memory) Pulled() int { return m.pulled }
