package ml

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScaler_FitTransform(t *testing.T) {
	X := [][]float64{
		{1, 100},
		{2, 100},
		{3, 100},
	}
	s := &StandardScaler{}
	require.NoError(t, s.Fit(X))

	assert.InDelta(t, 2.0, s.Mean[0], 1e-12)
	// Constant column keeps scale 1 so it transforms to zeros, not NaNs.
	assert.InDelta(t, 1.0, s.Scale[1], 1e-12)

	out, err := s.Transform(X)
	require.NoError(t, err)
	for _, row := range out {
		assert.InDelta(t, 0.0, row[1], 1e-12)
	}
	// Population std of {1,2,3} is sqrt(2/3).
	assert.InDelta(t, -1.0/s.Scale[0], out[0][0], 1e-12)
	assert.InDelta(t, 0.0, out[1][0], 1e-12)
}

func TestStandardScaler_DimensionMismatch(t *testing.T) {
	s := &StandardScaler{}
	require.NoError(t, s.Fit([][]float64{{1, 2}, {3, 4}}))

	_, err := s.TransformRow([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestStandardScaler_EmptyMatrix(t *testing.T) {
	s := &StandardScaler{}
	assert.Error(t, s.Fit(nil))
}

func TestStandardScaler_JSONRoundTrip(t *testing.T) {
	s := &StandardScaler{}
	require.NoError(t, s.Fit([][]float64{{1, 5}, {3, 9}}))

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var loaded StandardScaler
	require.NoError(t, json.Unmarshal(raw, &loaded))

	a, err := s.TransformRow([]float64{2, 7})
	require.NoError(t, err)
	b, err := loaded.TransformRow([]float64{2, 7})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
