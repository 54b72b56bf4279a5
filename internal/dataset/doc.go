// Package dataset turns parameter grids into labeled, reproducible image sets.
//
// A Grid lists the values to sweep per stimulus dimension. Build enumerates the
// cartesian product in a fixed documented order, renders one figure per
// combination (optionally repeated with seeded vertical jitter), and splits the
// result into train and test partitions with a deterministic shuffle. Re-running
// Build with the same Grid therefore yields byte-identical datasets.
//
// Datasets persist as a directory of PNG files plus a manifest.json that records
// the ordered specs, labels, and split assignment. The manifest, not the
// filename, is authoritative; Save followed by Load round-trips a Dataset
// exactly (same ordering, labels, and pixels).
//
// Configuration mistakes (an empty grid dimension, a ratio outside (0, 1)) fail
// with ErrInvalidConfiguration before any rendering starts.
package dataset
