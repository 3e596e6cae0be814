package ml

import (
	"fmt"
	"math"
)

const (
	logisticIterations   = 1000
	logisticLearningRate = 0.1
)

// LogisticRegression is the linear probabilistic candidate: batch gradient
// descent on log-loss over standardized features. Weights[0] is the
// intercept; the remaining entries align with the feature columns.
type LogisticRegression struct {
	Weights []float64 `json:"weights"`

	iterations   int
	learningRate float64
}

func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		iterations:   logisticIterations,
		learningRate: logisticLearningRate,
	}
}

func (m *LogisticRegression) Name() string { return CandidateLogisticRegression }

func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("logistic regression: no training samples")
	}
	if len(X) != len(y) {
		return fmt.Errorf("logistic regression: %d samples but %d labels", len(X), len(y))
	}
	if m.iterations == 0 {
		m.iterations = logisticIterations
		m.learningRate = logisticLearningRate
	}

	d := len(X[0])
	w := make([]float64, d+1)
	n := float64(len(X))

	for iter := 0; iter < m.iterations; iter++ {
		grad := make([]float64, d+1)
		for i, x := range X {
			p := sigmoid(w[0] + dot(w[1:], x))
			// gradient of -[y*log(p)+(1-y)*log(1-p)] is (p-y)*x
			diff := p - float64(y[i])
			grad[0] += diff
			for j, v := range x {
				grad[j+1] += diff * v
			}
		}
		for k := range w {
			w[k] -= m.learningRate * grad[k] / n
		}
	}

	m.Weights = w
	return nil
}

func (m *LogisticRegression) PredictProba(x []float64) float64 {
	if len(m.Weights) != len(x)+1 {
		return 0.5
	}
	return sigmoid(m.Weights[0] + dot(m.Weights[1:], x))
}

func sigmoid(z float64) float64 {
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
