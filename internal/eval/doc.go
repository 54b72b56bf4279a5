// Package eval measures classification accuracy over datasets, sliced by
// stimulus parameter.
//
// The evaluator runs a trained predictor over a dataset's test partition and
// groups outcomes by one swept dimension (fin angle, fin length, shaft length,
// separation, or arrow direction), producing one AccuracyRecord per slice plus
// an overall aggregate. Holding the other dimensions at fixed representative
// values in the dataset grid isolates the sliced parameter's marginal effect.
//
// A slice with zero samples is reported with Defined set to false rather than
// as zero accuracy; an undefined point must stay visible in the report so the
// aggregate curves are not silently skewed. Empty slices never abort a run.
//
// Results export as CSV and JSON tables for downstream plotting, and as
// rendered PNG accuracy curves.
package eval
