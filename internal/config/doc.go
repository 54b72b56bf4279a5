// Package config loads and validates experiment configuration files.
//
// An experiment file is JSON with the recognized parameter-sweep options
// (family, fin_angle, fin_length, shaft_length, separation, arrow_direction,
// seed, train_test_ratio, repeats, jitter, slice_by). Unknown fields are
// rejected so typos surface immediately instead of silently falling back to
// defaults, and all validation happens before any image generation.
package config
