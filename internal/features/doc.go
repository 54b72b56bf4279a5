// Package features computes fixed-length numeric descriptors from rendered
// figures via a biologically-inspired filter hierarchy.
//
// The transform is adapted from the HMAX family of cortical models: an input
// image is smoothed, passed through a bank of oriented even/odd Gabor filters
// at several scales (the simple-cell stage), rectified into local orientation
// energy, and max-pooled over coarse spatial cells (the complex-cell stage).
// The pooled responses are concatenated into one flat descriptor.
//
// The extractor is a fixed, deterministic function: it has no trainable state,
// and the same image always yields the same descriptor. The rest of the
// pipeline treats it as opaque and relies only on determinism and the fixed
// output dimensionality reported by Dim.
package features
