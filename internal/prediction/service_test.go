package prediction

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopiq/courtcast/internal/ml"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func heuristicService() *Service {
	return NewService(NewTeamStatsStore(), quietLogger())
}

func teamStats(abbr string, winPct float64) TeamStats {
	return TeamStats{
		Abbreviation: abbr,
		WinPct:       winPct,
		PPG:          110,
		OppPPG:       110,
	}
}

// stubModel returns a fixed probability regardless of input.
type stubModel struct{ p float64 }

func (m stubModel) Name() string                     { return "stub" }
func (m stubModel) Fit([][]float64, []int) error     { return nil }
func (m stubModel) PredictProba(x []float64) float64 { return m.p }

func identityScaler() *ml.StandardScaler {
	mean := make([]float64, 11)
	scale := make([]float64, 11)
	for i := range scale {
		scale[i] = 1
	}
	return &ml.StandardScaler{Mean: mean, Scale: scale}
}

func TestPredict_HeuristicFavorite(t *testing.T) {
	svc := heuristicService()

	// 0.5 + (0.70-0.50)/2 + 0.03 home edge = 0.63.
	res := svc.Predict(teamStats("BOS", 0.70), teamStats("NYK", 0.50))
	assert.InDelta(t, 63.0, res.HomeWinProbability, 1e-9)
	assert.InDelta(t, 37.0, res.AwayWinProbability, 1e-9)
	assert.Equal(t, "BOS", res.PredictedWinner)
	assert.InDelta(t, 63.0, res.Confidence, 1e-9)
	assert.Equal(t, SourceHeuristic, res.ModelUsed)
}

func TestPredict_HeuristicEvenTeamsHomeEdge(t *testing.T) {
	svc := heuristicService()

	res := svc.Predict(teamStats("BOS", 0.50), teamStats("NYK", 0.50))
	assert.InDelta(t, 53.0, res.HomeWinProbability, 1e-9)
	assert.InDelta(t, 47.0, res.AwayWinProbability, 1e-9)
	assert.Equal(t, "BOS", res.PredictedWinner)
}

func TestPredict_HeuristicClamped(t *testing.T) {
	svc := heuristicService()

	res := svc.Predict(teamStats("BOS", 1.0), teamStats("NYK", 0.0))
	assert.InDelta(t, 80.0, res.HomeWinProbability, 1e-9)
	assert.InDelta(t, 20.0, res.AwayWinProbability, 1e-9)

	res = svc.Predict(teamStats("BOS", 0.0), teamStats("NYK", 1.0))
	assert.InDelta(t, 20.0, res.HomeWinProbability, 1e-9)
	assert.InDelta(t, 80.0, res.AwayWinProbability, 1e-9)
	assert.Equal(t, "NYK", res.PredictedWinner)
	assert.InDelta(t, 80.0, res.Confidence, 1e-9)
}

func TestPredict_HeuristicMonotoneInHomeStrength(t *testing.T) {
	svc := heuristicService()
	away := teamStats("NYK", 0.50)

	prev := -1.0
	for pct := 0.0; pct <= 1.0; pct += 0.05 {
		res := svc.Predict(teamStats("BOS", pct), away)
		assert.GreaterOrEqual(t, res.HomeWinProbability, prev)
		prev = res.HomeWinProbability
	}
}

func TestPredict_ProbabilitiesSumToHundred(t *testing.T) {
	svc := heuristicService()
	svc.SetModelPair(&ModelPair{Model: stubModel{p: 0.4871}, Scaler: identityScaler(), Version: "v1"})

	res := svc.Predict(teamStats("BOS", 0.62), teamStats("NYK", 0.41))
	assert.InDelta(t, 100.0, res.HomeWinProbability+res.AwayWinProbability, 1e-9)
	assert.InDelta(t, 48.7, res.HomeWinProbability, 1e-9)
	assert.InDelta(t, 51.3, res.AwayWinProbability, 1e-9)
	assert.Equal(t, "NYK", res.PredictedWinner)
	assert.Equal(t, SourceModel, res.ModelUsed)
}

func TestPredict_ExactTieGoesToHome(t *testing.T) {
	svc := heuristicService()
	svc.SetModelPair(&ModelPair{Model: stubModel{p: 0.5}, Scaler: identityScaler()})

	res := svc.Predict(teamStats("BOS", 0.5), teamStats("NYK", 0.5))
	assert.InDelta(t, 50.0, res.HomeWinProbability, 1e-9)
	assert.InDelta(t, 50.0, res.AwayWinProbability, 1e-9)
	assert.Equal(t, "BOS", res.PredictedWinner)
}

func TestPredict_Idempotent(t *testing.T) {
	svc := heuristicService()
	home := teamStats("BOS", 0.66)
	away := teamStats("NYK", 0.44)

	first := svc.Predict(home, away)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, svc.Predict(home, away))
	}
}

func TestPredict_ScalerMismatchFallsBackToHeuristic(t *testing.T) {
	svc := heuristicService()
	// Scaler fitted on the wrong width cannot transform the vector.
	svc.SetModelPair(&ModelPair{
		Model:  stubModel{p: 0.9},
		Scaler: &ml.StandardScaler{Mean: []float64{0}, Scale: []float64{1}},
	})

	res := svc.Predict(teamStats("BOS", 0.50), teamStats("NYK", 0.50))
	assert.Equal(t, SourceHeuristic, res.ModelUsed)
	assert.InDelta(t, 53.0, res.HomeWinProbability, 1e-9)
}

func TestSetModelPair_NilRestoresHeuristic(t *testing.T) {
	svc := heuristicService()
	assert.False(t, svc.ModelLoaded())
	assert.Empty(t, svc.ModelVersion())

	svc.SetModelPair(&ModelPair{Model: stubModel{p: 0.7}, Scaler: identityScaler(), Version: "v1"})
	assert.True(t, svc.ModelLoaded())
	assert.Equal(t, "v1", svc.ModelVersion())

	svc.SetModelPair(nil)
	assert.False(t, svc.ModelLoaded())
	res := svc.Predict(teamStats("BOS", 0.5), teamStats("NYK", 0.5))
	assert.Equal(t, SourceHeuristic, res.ModelUsed)
}

func TestResolve_BothMissingIsMalformed(t *testing.T) {
	svc := heuristicService()
	_, _, err := svc.Resolve(nil, nil)
	assert.ErrorIs(t, err, ErrMalformedRequest)
}

func TestResolve_SingleMissingSideDefaults(t *testing.T) {
	svc := heuristicService()

	home, away, err := svc.Resolve(&TeamRef{Abbr: "BOS"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "BOS", home.Abbreviation)
	assert.Equal(t, "AWAY", away.Abbreviation)
	assert.InDelta(t, LeagueAverageStats.WinPct, away.WinPct, 1e-12)
	assert.InDelta(t, LeagueAverageStats.PPG, away.PPG, 1e-12)

	home, _, err = svc.Resolve(nil, &TeamRef{Abbr: "NYK"})
	require.NoError(t, err)
	assert.Equal(t, "HOME", home.Abbreviation)
}

func TestResolve_ExplicitStatsPartialFieldsDefault(t *testing.T) {
	svc := heuristicService()
	winPct := 0.75

	home, _, err := svc.Resolve(&TeamRef{Stats: &ExplicitStats{
		Abbreviation: "BOS",
		WinPct:       &winPct,
	}}, &TeamRef{Abbr: "NYK"})
	require.NoError(t, err)

	assert.Equal(t, "BOS", home.Abbreviation)
	assert.InDelta(t, 0.75, home.WinPct, 1e-12)
	// Omitted fields take the league-average values, not zero.
	assert.InDelta(t, LeagueAverageStats.PPG, home.PPG, 1e-12)
	assert.InDelta(t, LeagueAverageStats.OppPPG, home.OppPPG, 1e-12)
	assert.InDelta(t, LeagueAverageStats.PointDiff, home.PointDiff, 1e-12)
}

func TestResolve_ExplicitStatsWithoutAbbreviation(t *testing.T) {
	svc := heuristicService()

	home, _, err := svc.Resolve(&TeamRef{Stats: &ExplicitStats{}}, &TeamRef{Abbr: "NYK"})
	require.NoError(t, err)
	assert.Equal(t, "HOME", home.Abbreviation)
}

func TestPredictBatch_OrderAndCorrelationIDs(t *testing.T) {
	svc := heuristicService()

	items := []BatchItem{
		{GameID: "game-1", HomeTeam: &TeamRef{Abbr: "BOS"}, AwayTeam: &TeamRef{Abbr: "NYK"}},
		{HomeTeam: &TeamRef{Abbr: "LAL"}, AwayTeam: &TeamRef{Abbr: "GSW"}},
		{GameID: "game-3", HomeTeam: &TeamRef{Abbr: "MIA"}, AwayTeam: &TeamRef{Abbr: "CHI"}},
	}

	results := svc.PredictBatch(items)
	require.Len(t, results, 3)

	assert.Equal(t, "game-1", results[0].GameID)
	assert.Equal(t, "game-3", results[2].GameID)
	// Missing id is filled with a generated one.
	assert.NotEmpty(t, results[1].GameID)
	assert.NotEqual(t, "game-1", results[1].GameID)

	for i, r := range results {
		require.NotNil(t, r.Prediction, "item %d", i)
		assert.Empty(t, r.Error)
	}
	assert.Equal(t, "BOS", results[0].Prediction.HomeTeam)
	assert.Equal(t, "MIA", results[2].Prediction.HomeTeam)
}

func TestPredictBatch_FailedItemIsIsolated(t *testing.T) {
	svc := heuristicService()

	items := []BatchItem{
		{GameID: "ok-1", HomeTeam: &TeamRef{Abbr: "BOS"}, AwayTeam: &TeamRef{Abbr: "NYK"}},
		{GameID: "bad"},
		{GameID: "ok-2", HomeTeam: &TeamRef{Abbr: "MIA"}, AwayTeam: &TeamRef{Abbr: "CHI"}},
	}

	results := svc.PredictBatch(items)
	require.Len(t, results, 3)

	assert.NotNil(t, results[0].Prediction)
	assert.Nil(t, results[1].Prediction)
	assert.Equal(t, "bad", results[1].GameID)
	assert.NotEmpty(t, results[1].Error)
	assert.NotNil(t, results[2].Prediction)
}

func TestPredictBatch_Empty(t *testing.T) {
	svc := heuristicService()
	assert.Empty(t, svc.PredictBatch(nil))
}
