package ml

import (
	"fmt"
	"sort"
)

// Accuracy is the fraction of predictions on the correct side of 0.5.
func Accuracy(scores []float64, labels []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	correct := 0
	for i, s := range scores {
		pred := 0
		if s >= 0.5 {
			pred = 1
		}
		if pred == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(scores))
}

// ROCAUC computes the area under the ROC curve via the rank-statistic
// formulation: the probability that a random positive is scored above a
// random negative, with tied scores counted half. Errors when only one
// class is present, since ranking quality is undefined there.
func ROCAUC(scores []float64, labels []int) (float64, error) {
	if len(scores) != len(labels) {
		return 0, fmt.Errorf("auc: %d scores but %d labels", len(scores), len(labels))
	}

	nPos, nNeg := 0, 0
	for _, l := range labels {
		if l == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, fmt.Errorf("auc undefined: need both classes, got %d positive / %d negative", nPos, nNeg)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	// Midranks for ties, then the Mann-Whitney U statistic.
	ranks := make([]float64, len(scores))
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			j++
		}
		mid := float64(i+j+1) / 2 // average of 1-based ranks i+1..j
		for k := i; k < j; k++ {
			ranks[order[k]] = mid
		}
		i = j
	}

	var posRankSum float64
	for i, l := range labels {
		if l == 1 {
			posRankSum += ranks[i]
		}
	}
	u := posRankSum - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}
