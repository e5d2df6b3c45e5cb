package reader

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"nd2array/internal/models"
)

// DefaultManifest is the manifest file name looked up in a stack directory
const DefaultManifest = "acquisition.yaml"

// Manifest describes a stack directory: the declared axis sizes, the
// acquisition metadata and, optionally, the frame files in emission order
type Manifest struct {
	Sizes       models.AxisSizes `yaml:"sizes"`
	Calibration *float64         `yaml:"calibration_um,omitempty"`
	Planes      []string         `yaml:"planes,omitempty"`
	Frames      []string         `yaml:"frames,omitempty"`
}

// Stack is a Reader over a directory of single-plane image files.
// Files are decoded one at a time as frames are pulled.
type Stack struct {
	dir      string
	manifest Manifest
	files    []string
	closed   bool
}

var frameExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// OpenStack reads the manifest of dir and resolves the frame files. When
// the manifest lists no frames, every image file in dir is used, ordered
// by the number embedded in its name.
func OpenStack(dir, manifestName string) (*Stack, error) {
	if manifestName == "" {
		manifestName = DefaultManifest
	}

	m, err := LoadManifest(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, err
	}

	files := m.Frames
	if len(files) == 0 {
		files, err = listFrames(dir)
		if err != nil {
			return nil, err
		}
	}

	return &Stack{dir: dir, manifest: *m, files: files}, nil
}

// LoadManifest parses a stack manifest
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error parsing manifest %s: %w", path, err)
	}
	if m.Sizes == nil {
		m.Sizes = models.AxisSizes{}
	}
	return &m, nil
}

// SaveManifest writes a stack manifest
func SaveManifest(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("error marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing manifest: %w", err)
	}
	return nil
}

func listFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if frameExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}

	sort.SliceStable(files, func(i, j int) bool {
		ni, nj := extractNumber(files[i]), extractNumber(files[j])
		if ni != nj {
			return ni < nj
		}
		return files[i] < files[j]
	})
	return files, nil
}

// extractNumber returns the digits of a file name read as one number
func extractNumber(filename string) int {
	var digits strings.Builder
	for _, c := range filepath.Base(filename) {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

func (s *Stack) Sizes() models.AxisSizes { return s.manifest.Sizes }

// Calibration returns the pixel size in microns when the manifest has one
func (s *Stack) Calibration() (float64, bool) {
	if s.manifest.Calibration == nil {
		return 0, false
	}
	return *s.manifest.Calibration, true
}

// PlaneName returns the name of plane i
func (s *Stack) PlaneName(i int) (string, error) {
	if i < 0 || i >= len(s.manifest.Planes) {
		return "", fmt.Errorf("%w: %d", ErrNoPlane, i)
	}
	return s.manifest.Planes[i], nil
}

// Files returns the frame files in emission order
func (s *Stack) Files() []string {
	return append([]string(nil), s.files...)
}

// Frames decodes and yields one file per pull
func (s *Stack) Frames() iter.Seq2[*mat.Dense, error] {
	return func(yield func(*mat.Dense, error) bool) {
		for _, name := range s.files {
			if s.closed {
				yield(nil, ErrClosed)
				return
			}

			img, err := loadImage(filepath.Join(s.dir, name))
			if err != nil {
				yield(nil, fmt.Errorf("failed to load image %s: %w", name, err))
				return
			}

			frame, err := imageToDense(img)
			if err != nil {
				yield(nil, fmt.Errorf("image %s: %w", name, err))
				return
			}
			if !yield(frame, nil) {
				return
			}
		}
	}
}

// Close releases the stack
func (s *Stack) Close() error {
	s.closed = true
	return nil
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// imageToDense converts the first colour sample of img to a matrix in [0,1]
func imageToDense(img image.Image) (*mat.Dense, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("empty image")
	}
	data := make([]float64, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			data[y*width+x] = float64(r) / 65535.0
		}
	}

	return mat.NewDense(height, width, data), nil
}
