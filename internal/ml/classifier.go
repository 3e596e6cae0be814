// Package ml implements the model training and selection pipeline: feature
// standardization, three candidate classifier families, held-out and
// cross-validated evaluation, and persistence of the winning (model,
// scaler) pair.
package ml

import "fmt"

// Classifier is a binary classifier over scaled feature vectors. All
// candidates output a calibrated-ish probability for the positive class
// (home team wins).
type Classifier interface {
	// Name returns the candidate's registry name.
	Name() string
	// Fit trains on already-scaled features. Labels are 0 or 1.
	Fit(X [][]float64, y []int) error
	// PredictProba returns P(y=1) for one scaled feature vector.
	PredictProba(x []float64) float64
}

// Candidate registry names. CandidateOrder is the fixed evaluation order;
// it also breaks AUC ties during selection (first listed wins).
const (
	CandidateLogisticRegression = "logistic_regression"
	CandidateRandomForest       = "random_forest"
	CandidateGradientBoosting   = "gradient_boosting"
)

var CandidateOrder = []string{
	CandidateLogisticRegression,
	CandidateRandomForest,
	CandidateGradientBoosting,
}

// NewCandidate builds a fresh, unfitted classifier for the given registry
// name, with the default hyperparameters used throughout training.
func NewCandidate(name string, seed int64) (Classifier, error) {
	switch name {
	case CandidateLogisticRegression:
		return NewLogisticRegression(), nil
	case CandidateRandomForest:
		return NewRandomForest(seed), nil
	case CandidateGradientBoosting:
		return NewGradientBoosting(seed), nil
	default:
		return nil, fmt.Errorf("unknown classifier %q", name)
	}
}
