// Package stimulus generates the synthetic line-pair figures used throughout the
// experiment: control figures with non-illusory cross fins, and Müller-Lyer figures
// with angled arrowhead fins.
//
// Every figure consists of two horizontal shafts, one in the upper half of the
// canvas and one in the lower half, both horizontally centered. Each shaft end
// carries fin strokes whose angle, length, and direction are controlled by the
// Spec. The binary label records which shaft is objectively longer.
//
// # Coordinate System
//
// All geometry uses the standard image convention: origin (0, 0) at the top-left
// corner, X increasing rightward, Y increasing downward. Fin angles are measured
// in degrees from the vertical: 0° points the fins straight up and down, 90°
// lays them along the shaft axis. For Müller-Lyer figures the horizontal wing
// component grows with the angle, so illusion strength peaks at 90°.
//
// # Figure Families
//
//   - FamilyControl: each shaft end carries a symmetric cross of four fin strokes
//     (two above the shaft, two below). Cross fins carry no depth cue, so length
//     discrimination on these figures is veridical.
//   - FamilyMullerLyer: each shaft end carries a two-stroke arrowhead. FinsOutward
//     heads extend past the shaft ends (wings-out, segment appears longer);
//     FinsInward heads fold back over the shaft (wings-in, segment appears
//     shorter).
//
// # Determinism
//
// Rendering is purely functional: the same Spec always produces byte-identical
// pixels. All randomization (vertical jitter, direction assignment) happens
// upstream in the dataset package, which materializes it into Spec fields.
//
// # Error Handling
//
// Specs whose strokes would leave the canvas are rejected with ErrInvalidGeometry
// rather than clipped. Clipped fins would systematically distort the descriptors
// of the most extreme parameter combinations and bias the accuracy curves.
package stimulus
