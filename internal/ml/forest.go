package ml

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	forestTrees    = 100
	forestMaxDepth = 10
	forestMinLeaf  = 1
)

// RandomForest is the bagged ensemble candidate: trees grown on bootstrap
// samples with sqrt(d) feature subsampling. The predicted probability is
// the mean of the leaf values across trees.
type RandomForest struct {
	Trees []*TreeNode `json:"trees"`

	seed int64
}

func NewRandomForest(seed int64) *RandomForest {
	return &RandomForest{seed: seed}
}

func (m *RandomForest) Name() string { return CandidateRandomForest }

func (m *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("random forest: no training samples")
	}
	if len(X) != len(y) {
		return fmt.Errorf("random forest: %d samples but %d labels", len(X), len(y))
	}

	targets := make([]float64, len(y))
	for i, v := range y {
		targets[i] = float64(v)
	}

	d := len(X[0])
	maxFeatures := int(math.Sqrt(float64(d)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rng := rand.New(rand.NewSource(m.seed))
	m.Trees = make([]*TreeNode, 0, forestTrees)
	idx := make([]int, len(X))
	for t := 0; t < forestTrees; t++ {
		for i := range idx {
			idx[i] = rng.Intn(len(X))
		}
		builder := &treeBuilder{
			maxDepth:    forestMaxDepth,
			minLeaf:     forestMinLeaf,
			maxFeatures: maxFeatures,
			rng:         rng,
		}
		m.Trees = append(m.Trees, builder.build(X, targets, idx, 0))
	}
	return nil
}

func (m *RandomForest) PredictProba(x []float64) float64 {
	if len(m.Trees) == 0 {
		return 0.5
	}
	var sum float64
	for _, tree := range m.Trees {
		sum += tree.Predict(x)
	}
	p := sum / float64(len(m.Trees))
	return clamp01(p)
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
