package ml

import (
	"math/rand"
	"sort"
)

// TreeNode is one node of a fitted regression tree. Internal nodes route
// on Feature < Threshold; leaves carry the mean target of the samples
// that reached them. Both ensembles serialize their trees as these nodes.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Value     float64   `json:"value"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
}

func (n *TreeNode) isLeaf() bool { return n.Left == nil && n.Right == nil }

// Predict walks the tree for one feature vector.
func (n *TreeNode) Predict(x []float64) float64 {
	node := n
	for !node.isLeaf() {
		if x[node.Feature] < node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// treeBuilder grows variance-reduction regression trees. With 0/1 targets
// this is equivalent to Gini-style classification splitting; with boosting
// residuals it is a plain least-squares fit, so one builder serves both
// ensembles.
type treeBuilder struct {
	maxDepth    int
	minLeaf     int
	maxFeatures int // 0 means consider every feature
	rng         *rand.Rand
}

func (b *treeBuilder) build(X [][]float64, y []float64, idx []int, depth int) *TreeNode {
	node := &TreeNode{Feature: -1, Value: meanAt(y, idx)}
	if depth >= b.maxDepth || len(idx) < 2*b.minLeaf || pure(y, idx) {
		return node
	}

	feature, threshold, ok := b.bestSplit(X, y, idx)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.minLeaf || len(right) < b.minLeaf {
		return node
	}

	node.Feature = feature
	node.Threshold = threshold
	node.Left = b.build(X, y, left, depth+1)
	node.Right = b.build(X, y, right, depth+1)
	return node
}

// bestSplit scans candidate features with running sums, picking the
// threshold that minimizes total squared error of the two children.
func (b *treeBuilder) bestSplit(X [][]float64, y []float64, idx []int) (int, float64, bool) {
	d := len(X[0])
	candidates := b.candidateFeatures(d)

	bestSSE := sseAt(y, idx)
	bestFeature, bestThreshold := -1, 0.0
	found := false

	order := make([]int, len(idx))
	for _, f := range candidates {
		copy(order, idx)
		sort.Slice(order, func(a, c int) bool { return X[order[a]][f] < X[order[c]][f] })

		var leftSum, leftSq float64
		var total, totalSq float64
		for _, i := range order {
			total += y[i]
			totalSq += y[i] * y[i]
		}
		n := float64(len(order))

		for k := 0; k < len(order)-1; k++ {
			v := y[order[k]]
			leftSum += v
			leftSq += v * v

			// Can only split between distinct feature values.
			if X[order[k]][f] == X[order[k+1]][f] {
				continue
			}
			nl := float64(k + 1)
			nr := n - nl
			if int(nl) < b.minLeaf || int(nr) < b.minLeaf {
				continue
			}
			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if sse < bestSSE-1e-12 {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (X[order[k]][f] + X[order[k+1]][f]) / 2
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

func (b *treeBuilder) candidateFeatures(d int) []int {
	all := make([]int, d)
	for i := range all {
		all[i] = i
	}
	if b.maxFeatures <= 0 || b.maxFeatures >= d {
		return all
	}
	b.rng.Shuffle(d, func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:b.maxFeatures]
}

func meanAt(y []float64, idx []int) float64 {
	var s float64
	for _, i := range idx {
		s += y[i]
	}
	return s / float64(len(idx))
}

func sseAt(y []float64, idx []int) float64 {
	m := meanAt(y, idx)
	var s float64
	for _, i := range idx {
		d := y[i] - m
		s += d * d
	}
	return s
}

func pure(y []float64, idx []int) bool {
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}
