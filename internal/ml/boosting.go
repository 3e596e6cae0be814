package ml

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	boostingRounds    = 100
	boostingMaxDepth  = 5
	boostingMinLeaf   = 2
	boostingShrinkage = 0.1
)

// GradientBoosting is the sequential ensemble candidate: each round fits a
// regression tree to the residuals of the current log-odds prediction and
// adds it with shrinkage. Bias carries the initial log-odds of the
// positive class.
type GradientBoosting struct {
	Bias      float64     `json:"bias"`
	Shrinkage float64     `json:"shrinkage"`
	Trees     []*TreeNode `json:"trees"`

	seed int64
}

func NewGradientBoosting(seed int64) *GradientBoosting {
	return &GradientBoosting{Shrinkage: boostingShrinkage, seed: seed}
}

func (m *GradientBoosting) Name() string { return CandidateGradientBoosting }

func (m *GradientBoosting) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("gradient boosting: no training samples")
	}
	if len(X) != len(y) {
		return fmt.Errorf("gradient boosting: %d samples but %d labels", len(X), len(y))
	}
	if m.Shrinkage == 0 {
		m.Shrinkage = boostingShrinkage
	}

	n := len(X)
	var pos float64
	for _, v := range y {
		pos += float64(v)
	}
	// Initial prediction is the log-odds of the base rate. Guard the
	// degenerate single-class case even though the trainer rejects it.
	rate := pos / float64(n)
	if rate <= 0 {
		rate = 1.0 / float64(n+1)
	}
	if rate >= 1 {
		rate = float64(n) / float64(n+1)
	}
	m.Bias = math.Log(rate / (1 - rate))

	score := make([]float64, n)
	for i := range score {
		score[i] = m.Bias
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	residual := make([]float64, n)
	rng := rand.New(rand.NewSource(m.seed))

	m.Trees = make([]*TreeNode, 0, boostingRounds)
	for round := 0; round < boostingRounds; round++ {
		for i := range residual {
			residual[i] = float64(y[i]) - sigmoid(score[i])
		}
		builder := &treeBuilder{
			maxDepth: boostingMaxDepth,
			minLeaf:  boostingMinLeaf,
			rng:      rng,
		}
		tree := builder.build(X, residual, idx, 0)
		m.Trees = append(m.Trees, tree)
		for i, x := range X {
			score[i] += m.Shrinkage * tree.Predict(x)
		}
	}
	return nil
}

func (m *GradientBoosting) PredictProba(x []float64) float64 {
	score := m.Bias
	for _, tree := range m.Trees {
		score += m.Shrinkage * tree.Predict(x)
	}
	return sigmoid(score)
}
