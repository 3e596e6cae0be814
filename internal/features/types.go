package features

import "time"

// GameRecord is one team's side of one completed game. Every game in the
// historical table appears twice, once per participant, with home/away
// and win flags inverted between the two rows.
type GameRecord struct {
	GameID       string
	Date         time.Time
	TeamAbbr     string
	OpponentAbbr string
	IsHome       bool
	Win          bool
	Points       float64
	FGPct        float64
	FG3Pct       float64
	FTPct        float64
	Assists      float64
	Rebounds     float64
	Steals       float64
	Blocks       float64
	Turnovers    float64
	PlusMinus    float64
}

// TeamSnapshot is a team's aggregate form as of a reference date, computed
// over its most recent prior games. Computed on demand, never persisted.
type TeamSnapshot struct {
	GamesPlayed int
	WinPct      float64
	PPG         float64
	OppPPG      float64
	PointDiff   float64
	FGPct       float64
	FG3Pct      float64
	FTPct       float64
	Assists     float64
	Rebounds    float64
}

// CoreStats is the four-stat profile that feeds the feature vector.
type CoreStats struct {
	WinPct    float64
	PPG       float64
	OppPPG    float64
	PointDiff float64
}

// Core returns the snapshot's four model-facing stats.
func (s *TeamSnapshot) Core() CoreStats {
	return CoreStats{
		WinPct:    s.WinPct,
		PPG:       s.PPG,
		OppPPG:    s.OppPPG,
		PointDiff: s.PointDiff,
	}
}

// FeatureRow is one training example: the 11 features for a single game
// plus the home-win label, with bookkeeping columns for traceability.
type FeatureRow struct {
	GameID        string
	Date          time.Time
	HomeTeamAbbr  string
	AwayTeamAbbr  string
	HomeWinPct    float64
	HomePPG       float64
	HomeOppPPG    float64
	HomePointDiff float64
	AwayWinPct    float64
	AwayPPG       float64
	AwayOppPPG    float64
	AwayPointDiff float64
	WinPctDiff    float64
	PPGDiff       float64
	PointDiffDiff float64
	HomeWin       int
}

// Columns is the exact feature order used at training time. Inference
// must build vectors in this same order; see Vector.
var Columns = []string{
	"home_win_pct", "home_ppg", "home_opp_ppg", "home_point_diff",
	"away_win_pct", "away_ppg", "away_opp_ppg", "away_point_diff",
	"win_pct_diff", "ppg_diff", "point_diff_diff",
}

// Vector assembles the 11-feature vector from two teams' core stats.
// The three differentials are always recomputed here so training and
// inference cannot drift apart.
func Vector(home, away CoreStats) []float64 {
	return []float64{
		home.WinPct,
		home.PPG,
		home.OppPPG,
		home.PointDiff,
		away.WinPct,
		away.PPG,
		away.OppPPG,
		away.PointDiff,
		home.WinPct - away.WinPct,
		home.PPG - away.PPG,
		home.PointDiff - away.PointDiff,
	}
}

// Vector returns the row's features in training order.
func (r *FeatureRow) Vector() []float64 {
	return Vector(
		CoreStats{WinPct: r.HomeWinPct, PPG: r.HomePPG, OppPPG: r.HomeOppPPG, PointDiff: r.HomePointDiff},
		CoreStats{WinPct: r.AwayWinPct, PPG: r.AwayPPG, OppPPG: r.AwayOppPPG, PointDiff: r.AwayPointDiff},
	)
}
