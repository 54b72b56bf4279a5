package dataset

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/perceptionlab/illusionbench/internal/stimulus"
)

// manifestName is the index file written next to the PNGs.
const manifestName = "manifest.json"

// manifest is the on-disk index of a dataset directory. Record order is the
// dataset order; the manifest, not the filenames, is authoritative.
type manifest struct {
	Records []imageRecord `json:"records"`
}

// imageRecord describes one stored figure.
type imageRecord struct {
	File  string     `json:"file"`
	Label string     `json:"label"`
	Split string     `json:"split"`
	Spec  specRecord `json:"spec"`
}

// specRecord is the JSON form of a stimulus.Spec.
type specRecord struct {
	Family         string  `json:"family"`
	TopLength      float64 `json:"top_length"`
	BottomLength   float64 `json:"bottom_length"`
	FinAngleDeg    float64 `json:"fin_angle_deg"`
	FinLength      float64 `json:"fin_length"`
	Separation     float64 `json:"separation"`
	TopDir         string  `json:"top_dir"`
	BottomDir      string  `json:"bottom_dir"`
	VerticalOffset float64 `json:"vertical_offset"`
	CanvasSize     int     `json:"canvas_size"`
}

func toRecord(s stimulus.Spec) specRecord {
	return specRecord{
		Family:         s.Family.String(),
		TopLength:      s.TopLength,
		BottomLength:   s.BottomLength,
		FinAngleDeg:    s.FinAngleDeg,
		FinLength:      s.FinLength,
		Separation:     s.Separation,
		TopDir:         s.TopDir.String(),
		BottomDir:      s.BottomDir.String(),
		VerticalOffset: s.VerticalOffset,
		CanvasSize:     s.CanvasSize,
	}
}

func (r specRecord) spec() (stimulus.Spec, error) {
	s := stimulus.Spec{
		TopLength:      r.TopLength,
		BottomLength:   r.BottomLength,
		FinAngleDeg:    r.FinAngleDeg,
		FinLength:      r.FinLength,
		Separation:     r.Separation,
		VerticalOffset: r.VerticalOffset,
		CanvasSize:     r.CanvasSize,
	}

	switch r.Family {
	case "CF":
		s.Family = stimulus.FamilyControl
	case "ML":
		s.Family = stimulus.FamilyMullerLyer
	default:
		return s, fmt.Errorf("unknown family %q", r.Family)
	}

	var err error
	if s.TopDir, err = parseDirection(r.TopDir); err != nil {
		return s, err
	}
	if s.BottomDir, err = parseDirection(r.BottomDir); err != nil {
		return s, err
	}
	return s, nil
}

func parseDirection(v string) (stimulus.FinDirection, error) {
	switch v {
	case "out":
		return stimulus.FinsOutward, nil
	case "in":
		return stimulus.FinsInward, nil
	default:
		return 0, fmt.Errorf("unknown fin direction %q", v)
	}
}

// Save writes the dataset to dir: one PNG per figure named by its zero-padded
// index, plus manifest.json. The directory is created if needed.
func Save(ds *Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	splitOf := make(map[int]string, len(ds.Images))
	for _, i := range ds.Train {
		splitOf[i] = "train"
	}
	for _, i := range ds.Test {
		splitOf[i] = "test"
	}

	m := manifest{Records: make([]imageRecord, 0, len(ds.Images))}
	for i, li := range ds.Images {
		name := fmt.Sprintf("img_%06d.png", i)

		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if err := png.Encode(f, li.Image); err != nil {
			f.Close()
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", name, err)
		}

		m.Records = append(m.Records, imageRecord{
			File:  name,
			Label: li.Label.String(),
			Split: splitOf[i],
			Spec:  toRecord(li.Spec),
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Load reads a dataset directory written by Save. The returned dataset has the
// manifest's ordering, labels, and split; pixel data round-trips exactly.
func Load(dir string) (*Dataset, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	ds := &Dataset{Images: make([]stimulus.LabeledImage, 0, len(m.Records))}
	for i, rec := range m.Records {
		spec, err := rec.Spec.spec()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		img, err := loadGrayPNG(filepath.Join(dir, rec.File))
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		var label stimulus.Label
		switch rec.Label {
		case "top":
			label = stimulus.TopLonger
		case "bottom":
			label = stimulus.BottomLonger
		default:
			return nil, fmt.Errorf("record %d: unknown label %q", i, rec.Label)
		}

		ds.Images = append(ds.Images, stimulus.LabeledImage{Image: img, Label: label, Spec: spec})

		switch rec.Split {
		case "train":
			ds.Train = append(ds.Train, i)
		case "test":
			ds.Test = append(ds.Test, i)
		default:
			return nil, fmt.Errorf("record %d: unknown split %q", i, rec.Split)
		}
	}
	return ds, nil
}

// loadGrayPNG decodes a PNG and returns it as a single-channel image. Figures
// are written as grayscale, so the decode normally yields *image.Gray directly;
// other color models are converted pixel by pixel.
func loadGrayPNG(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if gray, ok := img.(*image.Gray); ok {
		return gray, nil
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return gray, nil
}
