// Package classifier fits and applies the linear decision boundary that maps
// figure descriptors to length judgments.
//
// Training is logistic regression by full-batch gradient descent with L2
// regularization. Control-figure descriptors are designed to be near
// linearly separable from length alone, so the solver is expected to converge
// well within its iteration budget; if it does not, Fit reports
// ErrTrainingFailed and the caller aborts the run rather than evaluating an
// unstable boundary.
//
// A fitted Linear is immutable and safe for concurrent read-only use.
package classifier
