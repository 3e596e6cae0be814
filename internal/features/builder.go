package features

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Builder turns the two-rows-per-game historical table into point-in-time
// training examples.
type Builder struct {
	window int
	logger *logrus.Logger
}

func NewBuilder(window int, logger *logrus.Logger) *Builder {
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Builder{window: window, logger: logger}
}

// Build produces one FeatureRow per game with sufficient history for both
// participants. Only the home-flagged row of each game is walked, so each
// game yields at most one example. Games where either side has no prior
// games are dropped; that is expected for every team's earliest games and
// is not an error. Output order is (date, game id) ascending, so the same
// input always produces the same table.
func (b *Builder) Build(records []GameRecord) []FeatureRow {
	homeRows := make([]GameRecord, 0, len(records)/2)
	for _, r := range records {
		if r.IsHome {
			homeRows = append(homeRows, r)
		}
	}
	sort.SliceStable(homeRows, func(i, j int) bool {
		if !homeRows[i].Date.Equal(homeRows[j].Date) {
			return homeRows[i].Date.Before(homeRows[j].Date)
		}
		return homeRows[i].GameID < homeRows[j].GameID
	})

	b.logger.WithField("home_games", len(homeRows)).Info("Building game features")

	rows := make([]FeatureRow, 0, len(homeRows))
	skipped := 0
	for _, game := range homeRows {
		homeSnap := Snapshot(records, game.TeamAbbr, game.Date, b.window)
		awaySnap := Snapshot(records, game.OpponentAbbr, game.Date, b.window)
		if homeSnap == nil || awaySnap == nil {
			skipped++
			continue
		}

		home := homeSnap.Core()
		away := awaySnap.Core()
		label := 0
		if game.Win {
			label = 1
		}

		rows = append(rows, FeatureRow{
			GameID:        game.GameID,
			Date:          game.Date,
			HomeTeamAbbr:  game.TeamAbbr,
			AwayTeamAbbr:  game.OpponentAbbr,
			HomeWinPct:    home.WinPct,
			HomePPG:       home.PPG,
			HomeOppPPG:    home.OppPPG,
			HomePointDiff: home.PointDiff,
			AwayWinPct:    away.WinPct,
			AwayPPG:       away.PPG,
			AwayOppPPG:    away.OppPPG,
			AwayPointDiff: away.PointDiff,
			WinPctDiff:    home.WinPct - away.WinPct,
			PPGDiff:       home.PPG - away.PPG,
			PointDiffDiff: home.PointDiff - away.PointDiff,
			HomeWin:       label,
		})
	}

	b.logger.WithFields(logrus.Fields{
		"rows":    len(rows),
		"skipped": skipped,
	}).Info("Feature build complete")

	return rows
}
