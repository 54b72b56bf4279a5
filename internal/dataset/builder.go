package dataset

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/perceptionlab/illusionbench/internal/stimulus"
)

// Dataset is an ordered collection of labeled figures with a train/test
// partition. Train and Test hold indexes into Images, sorted ascending; every
// index appears in exactly one partition.
type Dataset struct {
	Images []stimulus.LabeledImage
	Train  []int
	Test   []int
}

// Build renders the full grid into a Dataset.
//
// Figures are rendered in the grid's enumeration order; a rendering failure
// aborts immediately and identifies the offending spec by index, since it
// signals a configuration mistake rather than a transient condition. The split
// is a deterministic shuffle seeded from the grid, so repeated builds of the
// same grid produce identical datasets.
func Build(g Grid) (*Dataset, error) {
	specs, err := g.Specs()
	if err != nil {
		return nil, err
	}

	images := make([]stimulus.LabeledImage, 0, len(specs))
	for i, spec := range specs {
		li, err := stimulus.Render(spec)
		if err != nil {
			return nil, fmt.Errorf("rendering spec %d of %d: %w", i, len(specs), err)
		}
		images = append(images, *li)
	}

	train, test := split(len(images), g.TrainRatio, g.Seed)
	return &Dataset{Images: images, Train: train, Test: test}, nil
}

// split partitions n indexes into train/test with a seeded shuffle. At least
// one index lands in each partition when n >= 2.
func split(n int, ratio float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed + 1)).Perm(n)

	nTrain := int(float64(n) * ratio)
	if nTrain < 1 && n > 1 {
		nTrain = 1
	}
	if nTrain >= n && n > 1 {
		nTrain = n - 1
	}

	train = append([]int(nil), perm[:nTrain]...)
	test = append([]int(nil), perm[nTrain:]...)
	sort.Ints(train)
	sort.Ints(test)
	return train, test
}
