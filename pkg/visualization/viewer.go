package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"nd2array/pkg/assembly"
)

// Viewer renders the frames of an assembled acquisition as preview images
type Viewer struct {
	// frames is the assembled structure
	frames *assembly.Node

	// format is png or jpeg
	format string

	// normalize stretches each frame to the full grey range
	normalize bool
}

// NewViewer creates a viewer over an assembled structure
func NewViewer(frames *assembly.Node, format string, normalize bool) *Viewer {
	if format == "jpg" {
		format = "jpeg"
	}
	return &Viewer{
		frames:    frames,
		format:    format,
		normalize: normalize,
	}
}

// FrameImage converts a frame to a 16-bit grey image. Values are read as
// [0,1] intensities unless the viewer normalizes, in which case the frame's
// own minimum and maximum are mapped to black and white.
func (v *Viewer) FrameImage(frame *mat.Dense) image.Image {
	rows, cols := frame.Dims()
	img := image.NewGray16(image.Rect(0, 0, cols, rows))

	lo, hi := 0.0, 1.0
	if v.normalize {
		raw := make([]float64, 0, rows*cols)
		for r := 0; r < rows; r++ {
			raw = append(raw, frame.RawRowView(r)...)
		}
		lo, hi = floats.Min(raw), floats.Max(raw)
	}
	span := hi - lo

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			val := 0.0
			if span > 0 {
				val = (frame.At(y, x) - lo) / span
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(math.Max(0, math.Min(65535, val*65535)))})
		}
	}

	return img
}

// SaveFrame writes an image in the viewer's format. A failure to close the
// file is reported like a failed write.
func (v *Viewer) SaveFrame(img image.Image, filename string) (err error) {
	var encode func(io.Writer, image.Image) error
	switch v.format {
	case "jpeg":
		encode = func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: 90})
		}
	case "png":
		encode = png.Encode
	default:
		return fmt.Errorf("invalid format: %s (must be png or jpeg)", v.format)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", filename, cerr)
		}
	}()

	return encode(file, img)
}

// SaveAll writes one image per frame under outputDir. Branch keys become
// directories and the innermost key the file name, e.g. 1/GFP/2.png; a
// single static frame is written as frame.png. It returns the written paths.
func (v *Viewer) SaveAll(outputDir string) ([]string, error) {
	ext := "." + v.format
	if v.format == "jpeg" {
		ext = ".jpg"
	}

	var written []string
	err := v.frames.Walk(func(path []string, frame *mat.Dense) error {
		parts := []string{outputDir}
		for _, p := range path {
			parts = append(parts, sanitize(p))
		}
		if len(path) == 0 {
			parts = append(parts, "frame")
		}

		filename := filepath.Join(parts...) + ext
		if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
			return err
		}
		if err := v.SaveFrame(v.FrameImage(frame), filename); err != nil {
			return fmt.Errorf("failed to save %s: %w", filename, err)
		}
		written = append(written, filename)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return written, nil
}

// sanitize makes a channel name safe to use as a path element
func sanitize(key string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, key)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}
