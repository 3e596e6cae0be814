package features

import (
	"sort"
	"time"
)

// DefaultWindow is the number of trailing games a snapshot covers.
const DefaultWindow = 10

// Snapshot computes a team's trailing-window form as of asOf, using only
// games strictly before that date. A game never contributes to its own
// snapshot; that would leak the label into the features. Returns nil when
// the team has no qualifying games, and the caller is expected to skip
// the matchup rather than substitute defaults.
func Snapshot(records []GameRecord, team string, asOf time.Time, window int) *TeamSnapshot {
	if window <= 0 {
		window = DefaultWindow
	}

	prior := make([]GameRecord, 0, window)
	for _, r := range records {
		if r.TeamAbbr == team && r.Date.Before(asOf) {
			prior = append(prior, r)
		}
	}
	if len(prior) == 0 {
		return nil
	}

	// Most recent first; game id breaks date ties so the selection is
	// reproducible run to run.
	sort.SliceStable(prior, func(i, j int) bool {
		if !prior[i].Date.Equal(prior[j].Date) {
			return prior[i].Date.After(prior[j].Date)
		}
		return prior[i].GameID > prior[j].GameID
	})
	if len(prior) > window {
		prior = prior[:window]
	}

	n := float64(len(prior))
	var wins, points, plusMinus, fg, fg3, ft, ast, reb float64
	for _, r := range prior {
		if r.Win {
			wins++
		}
		points += r.Points
		plusMinus += r.PlusMinus
		fg += r.FGPct
		fg3 += r.FG3Pct
		ft += r.FTPct
		ast += r.Assists
		reb += r.Rebounds
	}

	ppg := points / n
	// Opponent PPG is estimated from plus-minus, not measured: plus-minus
	// is a noisy proxy for true opponent scoring, but the historical table
	// carries no direct opponent points column.
	oppPPG := ppg - plusMinus/n

	return &TeamSnapshot{
		GamesPlayed: len(prior),
		WinPct:      wins / n,
		PPG:         ppg,
		OppPPG:      oppPPG,
		PointDiff:   ppg - oppPPG,
		FGPct:       fg / n,
		FG3Pct:      fg3 / n,
		FTPct:       ft / n,
		Assists:     ast / n,
		Rebounds:    reb / n,
	}
}
