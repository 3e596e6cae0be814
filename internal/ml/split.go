package ml

import (
	"math/rand"
	"sort"
	"time"
)

const testFraction = 0.2

// chronologicalSplit partitions row indices into train/test with the
// newest fifth of games held out. Holding out the most recent games keeps
// the evaluation honest for temporal data: a random split lets the model
// train on games played after the ones it is tested on.
func chronologicalSplit(dates []time.Time) (train, test []int) {
	order := make([]int, len(dates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return dates[order[a]].Before(dates[order[b]]) })

	cut := len(order) - int(float64(len(order))*testFraction)
	if cut < 1 {
		cut = 1
	}
	if cut >= len(order) {
		cut = len(order) - 1
	}
	return order[:cut], order[cut:]
}

// shuffleSplit is the legacy behavior: a seeded random 80/20 partition.
// Kept behind a config flag for comparisons against historical accuracy
// numbers measured with it.
func shuffleSplit(n int, seed int64) (train, test []int) {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

	cut := n - int(float64(n)*testFraction)
	if cut < 1 {
		cut = 1
	}
	if cut >= n {
		cut = n - 1
	}
	return order[:cut], order[cut:]
}

// kFolds slices indices into k contiguous folds for cross-validation. The
// input order is whatever the split produced, so chronological training
// data yields chronological folds.
func kFolds(idx []int, k int) [][]int {
	if k > len(idx) {
		k = len(idx)
	}
	folds := make([][]int, k)
	for i, v := range idx {
		f := i * k / len(idx)
		folds[f] = append(folds[f], v)
	}
	return folds
}
