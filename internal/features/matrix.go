package features

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/perceptionlab/illusionbench/internal/stimulus"
)

// Matrix extracts descriptors for the selected images and assembles them into
// a design matrix, one row per image in index order, plus the matching labels.
//
// indexes selects rows from images (typically a dataset's Train or Test
// partition). The row order follows indexes, so reproducibility is preserved
// regardless of how the descriptors are computed.
func Matrix(ex Extractor, images []stimulus.LabeledImage, indexes []int) (*mat.Dense, []stimulus.Label, error) {
	if len(indexes) == 0 {
		return nil, nil, fmt.Errorf("no images selected")
	}

	x := mat.NewDense(len(indexes), ex.Dim(), nil)
	labels := make([]stimulus.Label, len(indexes))

	for row, idx := range indexes {
		if idx < 0 || idx >= len(images) {
			return nil, nil, fmt.Errorf("index %d out of range (%d images)", idx, len(images))
		}
		desc, err := ex.Extract(images[idx].Image)
		if err != nil {
			return nil, nil, fmt.Errorf("extracting image %d: %w", idx, err)
		}
		x.SetRow(row, desc)
		labels[row] = images[idx].Label
	}
	return x, labels, nil
}
