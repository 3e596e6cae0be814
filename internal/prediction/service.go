// Package prediction serves win-probability predictions for matchups,
// from a trained model when one is loaded and from a closed-form
// heuristic otherwise.
package prediction

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hoopiq/courtcast/internal/features"
	"github.com/hoopiq/courtcast/internal/ml"
)

// ErrMalformedRequest is returned when a request carries neither team
// reference. A request with one side present still resolves; the missing
// side falls back to the league-average default.
var ErrMalformedRequest = errors.New("request must include home_team or away_team")

// homeAdvantage is the empirically assumed home-court edge the heuristic
// adds on top of the win-percentage gap.
const homeAdvantage = 0.03

// Heuristic clamp bounds: no matchup is treated as more lopsided than
// 80/20 without a trained model saying so.
const (
	heuristicFloor   = 0.20
	heuristicCeiling = 0.80
)

// ModelPair is a fitted classifier and the scaler it was trained with.
// The two are loaded and replaced together, never separately.
type ModelPair struct {
	Model   ml.Classifier
	Scaler  *ml.StandardScaler
	Version string
}

// Service scores matchups. The loaded model pair and the team stats store
// are read-only after construction; reloads swap the pair wholesale via
// an atomic pointer, so concurrent requests are safe without locking.
type Service struct {
	store  *TeamStatsStore
	logger *logrus.Logger
	pair   atomic.Pointer[ModelPair]
}

func NewService(store *TeamStatsStore, logger *logrus.Logger) *Service {
	if store == nil {
		store = NewTeamStatsStore()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{store: store, logger: logger}
}

// SetModelPair installs a new (model, scaler) pair, replacing the old one
// wholesale. A nil pair switches the service to heuristic mode.
func (s *Service) SetModelPair(pair *ModelPair) {
	s.pair.Store(pair)
}

// ModelLoaded reports whether predictions currently use a trained model.
func (s *Service) ModelLoaded() bool {
	return s.pair.Load() != nil
}

// ModelVersion returns the loaded artifact's version marker, or "" in
// heuristic mode.
func (s *Service) ModelVersion() string {
	if pair := s.pair.Load(); pair != nil {
		return pair.Version
	}
	return ""
}

// Store exposes the team lookup for the read-side API.
func (s *Service) Store() *TeamStatsStore { return s.store }

// Resolve turns a request's team references into concrete stats. Both
// references absent is a malformed request; a single absent side gets the
// league-average default under the given placeholder name.
func (s *Service) Resolve(home, away *TeamRef) (TeamStats, TeamStats, error) {
	if home == nil && away == nil {
		return TeamStats{}, TeamStats{}, ErrMalformedRequest
	}
	return s.resolveOne(home, "HOME"), s.resolveOne(away, "AWAY"), nil
}

func (s *Service) resolveOne(ref *TeamRef, placeholder string) TeamStats {
	if ref == nil {
		stats := LeagueAverageStats
		stats.Abbreviation = placeholder
		return stats
	}
	if ref.Stats == nil {
		return s.store.GetOrDefault(ref.Abbr)
	}

	stats := LeagueAverageStats
	stats.Abbreviation = ref.Stats.Abbreviation
	if stats.Abbreviation == "" {
		stats.Abbreviation = placeholder
	}
	if ref.Stats.WinPct != nil {
		stats.WinPct = *ref.Stats.WinPct
	}
	if ref.Stats.PPG != nil {
		stats.PPG = *ref.Stats.PPG
	}
	if ref.Stats.OppPPG != nil {
		stats.OppPPG = *ref.Stats.OppPPG
	}
	if ref.Stats.PointDiff != nil {
		stats.PointDiff = *ref.Stats.PointDiff
	}
	return stats
}

// Predict scores one matchup from resolved stats. Pure with respect to
// service state: identical inputs and an unchanged model pair yield
// identical output.
func (s *Service) Predict(home, away TeamStats) PredictionResult {
	var homeProb float64
	source := SourceHeuristic

	if pair := s.pair.Load(); pair != nil {
		vec := features.Vector(coreOf(home), coreOf(away))
		scaled, err := pair.Scaler.TransformRow(vec)
		if err != nil {
			// Shape mismatch between artifact and feature scheme; fall
			// back rather than fail the request.
			s.logger.WithError(err).Error("Model feature mismatch, using heuristic")
			homeProb = s.heuristic(home, away)
		} else {
			homeProb = pair.Model.PredictProba(scaled)
			source = SourceModel
		}
	} else {
		homeProb = s.heuristic(home, away)
	}

	homePct := round1(homeProb * 100)
	awayPct := round1(100 - homePct)

	// Ties break toward home court.
	winner := home.Abbreviation
	confidence := homePct
	if awayPct > homePct {
		winner = away.Abbreviation
		confidence = awayPct
	}

	return PredictionResult{
		HomeTeam:           home.Abbreviation,
		AwayTeam:           away.Abbreviation,
		HomeWinProbability: homePct,
		AwayWinProbability: awayPct,
		PredictedWinner:    winner,
		Confidence:         confidence,
		ModelUsed:          source,
	}
}

// heuristic is the closed-form fallback: half the win-percentage gap plus
// the home-court constant, clamped to [0.20, 0.80].
func (s *Service) heuristic(home, away TeamStats) float64 {
	base := 0.5 + (home.WinPct-away.WinPct)/2 + homeAdvantage
	return math.Min(heuristicCeiling, math.Max(heuristicFloor, base))
}

// PredictBatch scores matchups independently, preserving input order.
// Each item's correlation id is echoed back, with a generated id filling
// in when the caller supplied none. A failed item carries its own error
// and never aborts the rest.
func (s *Service) PredictBatch(items []BatchItem) []BatchResult {
	results := make([]BatchResult, 0, len(items))
	for _, item := range items {
		id := item.GameID
		if id == "" {
			id = uuid.NewString()
		}
		home, away, err := s.Resolve(item.HomeTeam, item.AwayTeam)
		if err != nil {
			results = append(results, BatchResult{GameID: id, Error: err.Error()})
			continue
		}
		res := s.Predict(home, away)
		results = append(results, BatchResult{GameID: id, Prediction: &res})
	}
	return results
}

func coreOf(t TeamStats) features.CoreStats {
	return features.CoreStats{
		WinPct:    t.WinPct,
		PPG:       t.PPG,
		OppPPG:    t.OppPPG,
		PointDiff: t.PointDiff,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
