// Package acquisition converts an opened multi-dimensional acquisition into
// its assembled frame structure and summary metadata.
//
// The conversion runs in five steps:
// 1. Reading the declared sizes and the pixel calibration
// 2. Classifying the varying axes into an iteration pattern
// 3. Naming the channels
// 4. Assembling the frame sequence into the nested structure
// 5. Packaging everything into a Result
//
// The reader is closed on every return path.
package acquisition

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"nd2array/internal/models"
	"nd2array/pkg/assembly"
	"nd2array/pkg/axes"
	"nd2array/pkg/channels"
	"nd2array/pkg/config"
	"nd2array/pkg/reader"
)

var (
	// ErrMissingCalibration is returned when the metadata has no pixel calibration
	ErrMissingCalibration = errors.New("missing calibration")

	// ErrInvalidCalibration is returned for a calibration that is not a positive number
	ErrInvalidCalibration = errors.New("invalid calibration")

	// ErrUnrecognizedPattern is returned when the varying axes are not a subset of position, channel and time
	ErrUnrecognizedPattern = axes.ErrUnrecognizedPattern

	// ErrMissingSensor is returned when the sizes lack x or y
	ErrMissingSensor = axes.ErrMissingSensor

	// ErrFrameCountMismatch is returned when the reader yields more or fewer frames than the pattern implies
	ErrFrameCountMismatch = assembly.ErrFrameCountMismatch

	// ErrFrameShape is returned for a frame whose dimensions differ from the sensor
	ErrFrameShape = assembly.ErrFrameShape
)

// scaleDecimals is the precision of the reported pixel scale
const scaleDecimals = 3

// Options control a conversion
type Options struct {
	// RepeatSuffix marks a channel name already used by an earlier plane
	RepeatSuffix string

	// Manifest is the manifest file name used by OpenStack
	Manifest string

	// Verbose prints the declared dimensions and the detected pattern
	Verbose bool

	// Logger receives verbose output; stdout when nil
	Logger *log.Logger
}

// OptionsFromConfig maps the configuration file onto conversion options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RepeatSuffix: cfg.Naming.RepeatSuffix,
		Manifest:     cfg.Reader.Manifest,
		Verbose:      cfg.Output.Verbose,
	}
}

func (o Options) logger() *log.Logger {
	switch {
	case !o.Verbose:
		return log.New(io.Discard, "", 0)
	case o.Logger != nil:
		return o.Logger
	default:
		return log.New(os.Stdout, "", 0)
	}
}

// Result is the outcome of a conversion
type Result struct {
	// Pattern is the iteration axis pattern, e.g. "mct"
	Pattern axes.Pattern

	// Reader is the reader the frames came from. It is closed by the time
	// the result is returned and is passed through for its metadata.
	Reader reader.Reader

	// Frames is the assembled structure, keyed by position, channel name
	// and time-point for the axes present in Pattern
	Frames *assembly.Node

	// Channels lists the channel names, empty unless the channel axis varies
	Channels []string

	// TimePoints is the time axis extent, 0 unless it varies
	TimePoints int

	// Positions is the XY position extent, 0 unless it varies
	Positions int

	// Scale is the pixel size in microns, rounded to three decimals
	Scale float64

	// Sensor holds the width and height of the camera sensor or ROI
	Sensor models.Sensor
}

// Convert runs the full conversion over r and closes it before returning.
// On error no partial result is returned.
func Convert(r reader.Reader, opts Options) (res *Result, err error) {
	defer func() {
		if cerr := r.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close reader: %w", cerr))
			res = nil
		}
	}()

	logger := opts.logger()

	// Step 1: sizes and calibration
	sizes := r.Sizes()
	logger.Printf("dimensions: %s", sizes)

	scale, err := pixelScale(r)
	if err != nil {
		return nil, err
	}

	sensor, ok := models.SensorOf(sizes)
	if !ok {
		return nil, fmt.Errorf("%w: sizes %s", ErrMissingSensor, sizes)
	}

	// Step 2: classify
	class, err := axes.Classify(sizes)
	if err != nil {
		return nil, fmt.Errorf("failed to classify axes: %w", err)
	}
	logger.Printf("iteration axis: %q", class.Pattern)

	// Step 3: channel names
	names := []string{}
	if class.Pattern.Has(axes.Channel) {
		names, err = channels.Name(class.Channels, r.PlaneName, opts.RepeatSuffix)
		if err != nil {
			return nil, fmt.Errorf("failed to name channels: %w", err)
		}
	}

	// Step 4: assemble
	frames, err := assembly.Assemble(class, names, sensor, r.Frames())
	if err != nil {
		return nil, fmt.Errorf("failed to assemble frames: %w", err)
	}
	logger.Printf("assembled %d frames", frames.Leaves())

	// Step 5: package
	return &Result{
		Pattern:    class.Pattern,
		Reader:     r,
		Frames:     frames,
		Channels:   names,
		TimePoints: class.TimePoints,
		Positions:  class.Positions,
		Scale:      scale,
		Sensor:     sensor,
	}, nil
}

// OpenStack opens a stack directory and converts it
func OpenStack(dir string, opts Options) (*Result, error) {
	r, err := reader.OpenStack(dir, opts.Manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dir, err)
	}
	return Convert(r, opts)
}

func pixelScale(r reader.Reader) (float64, error) {
	cal, ok := r.Calibration()
	if !ok {
		return 0, fmt.Errorf("%w: metadata key %q", ErrMissingCalibration, reader.CalibrationKey)
	}
	if math.IsNaN(cal) || math.IsInf(cal, 0) || cal <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCalibration, cal)
	}
	return RoundScale(cal), nil
}

// RoundScale rounds a calibration to the reported precision
func RoundScale(v float64) float64 {
	p := math.Pow(10, scaleDecimals)
	return math.Round(v*p) / p
}
