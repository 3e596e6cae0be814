package ml

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/hoopiq/courtcast/internal/features"
)

// ErrTrainingInfeasible is returned when the feature table cannot support
// training at all: no rows, or every label in the same class. Producing a
// degenerate always-one-class model with spurious metrics would be worse
// than failing, so this aborts the pipeline.
var ErrTrainingInfeasible = errors.New("training infeasible")

const cvFolds = 5

// CandidateResult holds one candidate's fitted model and its evaluation.
type CandidateResult struct {
	Model    Classifier
	Accuracy float64
	AUC      float64
	CVMean   float64
	CVStd    float64
}

// TrainingReport is the outcome of a full training run.
type TrainingReport struct {
	Results   map[string]CandidateResult
	Scaler    *StandardScaler
	TrainSize int
	TestSize  int
	TrainedAt time.Time
}

// Trainer fits and evaluates every candidate on the same split.
type Trainer struct {
	// Seed drives bootstrap sampling and feature subsampling, and the
	// legacy shuffle split. Fixed seed, reproducible run.
	Seed int64
	// ShuffleSplit restores the legacy seeded random 80/20 split instead
	// of the default date-ordered holdout.
	ShuffleSplit bool
	Logger       *logrus.Logger
}

func NewTrainer(seed int64, logger *logrus.Logger) *Trainer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Trainer{Seed: seed, Logger: logger}
}

// Train fits all candidates on scaled features and evaluates each with
// held-out accuracy, ROC-AUC, and 5-fold cross-validation on the training
// partition. The scaler in the report is fit on the training partition
// only and must be persisted alongside whichever model is selected.
func (t *Trainer) Train(rows []features.FeatureRow) (*TrainingReport, error) {
	if err := validateLabels(rows); err != nil {
		return nil, err
	}

	X := make([][]float64, len(rows))
	y := make([]int, len(rows))
	dates := make([]time.Time, len(rows))
	for i, row := range rows {
		X[i] = row.Vector()
		y[i] = row.HomeWin
		dates[i] = row.Date
	}

	var trainIdx, testIdx []int
	if t.ShuffleSplit {
		trainIdx, testIdx = shuffleSplit(len(rows), t.Seed)
		t.Logger.Warn("Using legacy shuffled train/test split; held-out metrics may be inflated by temporal leakage")
	} else {
		trainIdx, testIdx = chronologicalSplit(dates)
	}

	XTrain, yTrain := gather(X, y, trainIdx)
	XTest, yTest := gather(X, y, testIdx)

	scaler := &StandardScaler{}
	if err := scaler.Fit(XTrain); err != nil {
		return nil, err
	}
	XTrainScaled, err := scaler.Transform(XTrain)
	if err != nil {
		return nil, err
	}
	XTestScaled, err := scaler.Transform(XTest)
	if err != nil {
		return nil, err
	}

	t.Logger.WithFields(logrus.Fields{
		"train_size":    len(trainIdx),
		"test_size":     len(testIdx),
		"home_win_rate": stat.Mean(asFloats(yTrain), nil),
	}).Info("Training candidates")

	report := &TrainingReport{
		Results:   make(map[string]CandidateResult, len(CandidateOrder)),
		Scaler:    scaler,
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
		TrainedAt: time.Now().UTC(),
	}

	for _, name := range CandidateOrder {
		model, err := NewCandidate(name, t.Seed)
		if err != nil {
			return nil, err
		}
		if err := model.Fit(XTrainScaled, yTrain); err != nil {
			return nil, fmt.Errorf("fitting %s: %w", name, err)
		}

		scores := make([]float64, len(XTestScaled))
		for i, x := range XTestScaled {
			scores[i] = model.PredictProba(x)
		}
		acc := Accuracy(scores, yTest)
		auc, err := ROCAUC(scores, yTest)
		if err != nil {
			// A single-class test partition can slip through label
			// validation when the split is unlucky; treat it the same way.
			return nil, fmt.Errorf("%w: %v", ErrTrainingInfeasible, err)
		}

		cvMean, cvStd, err := t.crossValidate(name, XTrainScaled, yTrain)
		if err != nil {
			return nil, fmt.Errorf("cross-validating %s: %w", name, err)
		}

		report.Results[name] = CandidateResult{
			Model:    model,
			Accuracy: acc,
			AUC:      auc,
			CVMean:   cvMean,
			CVStd:    cvStd,
		}

		t.Logger.WithFields(logrus.Fields{
			"candidate": name,
			"accuracy":  fmt.Sprintf("%.4f", acc),
			"auc":       fmt.Sprintf("%.4f", auc),
			"cv_mean":   fmt.Sprintf("%.4f", cvMean),
			"cv_std":    fmt.Sprintf("%.4f", cvStd),
		}).Info("Candidate evaluated")
	}

	return report, nil
}

// crossValidate estimates accuracy variance with k contiguous folds over
// the training partition, refitting a fresh model per fold.
func (t *Trainer) crossValidate(name string, X [][]float64, y []int) (mean, std float64, err error) {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	folds := kFolds(idx, cvFolds)
	if len(folds) < 2 {
		return 0, 0, fmt.Errorf("not enough samples for %d-fold cross-validation", cvFolds)
	}

	accs := make([]float64, 0, len(folds))
	for f, holdout := range folds {
		inFold := make(map[int]bool, len(holdout))
		for _, i := range holdout {
			inFold[i] = true
		}
		var trainIdx []int
		for _, i := range idx {
			if !inFold[i] {
				trainIdx = append(trainIdx, i)
			}
		}

		XTrain, yTrain := gather(X, y, trainIdx)
		XVal, yVal := gather(X, y, holdout)

		if singleClass(yTrain) {
			// Skip folds whose training slice collapsed to one class.
			t.Logger.WithFields(logrus.Fields{"candidate": name, "fold": f}).Debug("Skipping single-class CV fold")
			continue
		}

		model, err := NewCandidate(name, t.Seed)
		if err != nil {
			return 0, 0, err
		}
		if err := model.Fit(XTrain, yTrain); err != nil {
			return 0, 0, err
		}
		scores := make([]float64, len(XVal))
		for i, x := range XVal {
			scores[i] = model.PredictProba(x)
		}
		accs = append(accs, Accuracy(scores, yVal))
	}
	if len(accs) == 0 {
		return 0, 0, fmt.Errorf("every cross-validation fold was single-class")
	}
	return stat.Mean(accs, nil), stat.PopStdDev(accs, nil), nil
}

// SelectBest picks the candidate with the highest held-out ROC-AUC. Ties
// go to the earlier entry in CandidateOrder. Pure function over the
// results map so alternative policies can replace it without touching
// training.
func SelectBest(results map[string]CandidateResult) (string, CandidateResult, error) {
	bestName := ""
	var best CandidateResult
	for _, name := range CandidateOrder {
		r, ok := results[name]
		if !ok {
			continue
		}
		if bestName == "" || r.AUC > best.AUC {
			bestName = name
			best = r
		}
	}
	if bestName == "" {
		return "", CandidateResult{}, fmt.Errorf("no candidate results to select from")
	}
	return bestName, best, nil
}

func validateLabels(rows []features.FeatureRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: feature table is empty", ErrTrainingInfeasible)
	}
	first := rows[0].HomeWin
	for _, r := range rows[1:] {
		if r.HomeWin != first {
			return nil
		}
	}
	return fmt.Errorf("%w: all %d rows share label home_win=%d", ErrTrainingInfeasible, len(rows), first)
}

func gather(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	gx := make([][]float64, len(idx))
	gy := make([]int, len(idx))
	for k, i := range idx {
		gx[k] = X[i]
		gy[k] = y[i]
	}
	return gx, gy
}

func singleClass(y []int) bool {
	for _, v := range y[1:] {
		if v != y[0] {
			return false
		}
	}
	return true
}

func asFloats(y []int) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = float64(v)
	}
	return out
}
