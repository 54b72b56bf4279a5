package classifier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/perceptionlab/illusionbench/internal/stimulus"
)

// ErrTrainingFailed reports that the solver did not converge within its
// iteration budget.
var ErrTrainingFailed = errors.New("training failed")

// Options configures the logistic-regression solver.
type Options struct {
	// LearningRate is the dimensionless gradient descent step factor. The
	// actual step is LearningRate divided by a Lipschitz estimate of the loss
	// gradient, so descent stays stable for any descriptor scale.
	LearningRate float64

	// MaxIter is the iteration budget. Exceeding it without convergence is a
	// TrainingFailed error.
	MaxIter int

	// Tolerance is the loss-delta convergence threshold.
	Tolerance float64

	// L2 is the ridge penalty on the weights.
	L2 float64
}

// DefaultOptions returns the solver settings used by the experiment runs.
func DefaultOptions() Options {
	return Options{
		LearningRate: 1.0,
		MaxIter:      5000,
		Tolerance:    1e-6,
		L2:           1e-3,
	}
}

// Linear is a fitted linear decision boundary over descriptors. Immutable
// after Fit.
type Linear struct {
	weights []float64
	bias    float64
}

// labelValue encodes a label for the solver: TopLonger is the positive class.
func labelValue(l stimulus.Label) float64 {
	if l == stimulus.TopLonger {
		return 1
	}
	return 0
}

// Fit trains a Linear on the given design matrix and labels.
//
// x has one descriptor per row; labels must have one entry per row. The solver
// runs full-batch gradient descent on the regularized cross-entropy loss and
// stops when the loss delta between iterations drops below opts.Tolerance.
//
// Returns ErrTrainingFailed if the budget of opts.MaxIter iterations is
// exhausted without convergence. Training failures are never silent: the
// returned error carries the final loss for diagnostics.
func Fit(x *mat.Dense, labels []stimulus.Label, opts Options) (*Linear, error) {
	n, d := x.Dims()
	if n == 0 {
		return nil, fmt.Errorf("empty training set")
	}
	if n != len(labels) {
		return nil, fmt.Errorf("matrix has %d rows but %d labels", n, len(labels))
	}
	if opts.MaxIter < 1 {
		return nil, fmt.Errorf("iteration budget must be positive (got %d)", opts.MaxIter)
	}

	y := make([]float64, n)
	for i, l := range labels {
		y[i] = labelValue(l)
	}

	w := mat.NewVecDense(d, nil)
	bias := 0.0

	// Lipschitz constant of the logistic gradient is bounded by
	// max ||x_i||^2 / 4 plus the ridge term; stepping by LearningRate over
	// that bound keeps full-batch descent stable at any descriptor scale.
	maxSq := 0.0
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		sq := 1.0 // account for the bias column
		for _, v := range row {
			sq += v * v
		}
		if sq > maxSq {
			maxSq = sq
		}
	}
	step := opts.LearningRate / (0.25*maxSq + opts.L2)

	z := mat.NewVecDense(n, nil)
	diff := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(d, nil)

	prevLoss := math.Inf(1)
	converged := false

	for it := 0; it < opts.MaxIter; it++ {
		z.MulVec(x, w)

		loss := 0.0
		diffSum := 0.0
		for i := 0; i < n; i++ {
			p := sigmoid(z.AtVec(i) + bias)
			diff.SetVec(i, p-y[i])
			diffSum += p - y[i]
			loss += crossEntropy(p, y[i])
		}
		loss /= float64(n)
		loss += 0.5 * opts.L2 * mat.Dot(w, w)

		grad.MulVec(x.T(), diff)
		grad.ScaleVec(1/float64(n), grad)
		grad.AddScaledVec(grad, opts.L2, w)

		w.AddScaledVec(w, -step, grad)
		bias -= step * diffSum / float64(n)

		if math.Abs(prevLoss-loss) < opts.Tolerance {
			converged = true
			break
		}
		prevLoss = loss
	}

	if !converged {
		return nil, fmt.Errorf("%w: no convergence within %d iterations (last loss %.6f)",
			ErrTrainingFailed, opts.MaxIter, prevLoss)
	}

	weights := make([]float64, d)
	for i := 0; i < d; i++ {
		weights[i] = w.AtVec(i)
	}
	return &Linear{weights: weights, bias: bias}, nil
}

// Predict returns the predicted label for one descriptor. The descriptor
// length must match the training dimensionality.
func (l *Linear) Predict(desc []float64) stimulus.Label {
	score := l.bias
	for i, v := range desc {
		score += l.weights[i] * v
	}
	if score >= 0 {
		return stimulus.TopLonger
	}
	return stimulus.BottomLonger
}

// PredictBatch predicts one label per row of x.
func (l *Linear) PredictBatch(x *mat.Dense) []stimulus.Label {
	n, _ := x.Dims()
	out := make([]stimulus.Label, n)
	for i := 0; i < n; i++ {
		out[i] = l.Predict(x.RawRowView(i))
	}
	return out
}

// Dim returns the descriptor dimensionality the boundary was fit on.
func (l *Linear) Dim() int {
	return len(l.weights)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// crossEntropy is the per-sample log loss, with probabilities clipped away
// from 0 and 1 to keep the loss finite on separable data.
func crossEntropy(p, y float64) float64 {
	const eps = 1e-12
	if p < eps {
		p = eps
	}
	if p > 1-eps {
		p = 1 - eps
	}
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}
