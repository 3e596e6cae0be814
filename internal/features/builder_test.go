package features

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pairedGame appends both sides of one game to the slice.
func pairedGame(records []GameRecord, gameID string, d int, home, away string, homePts, awayPts float64) []GameRecord {
	homeWin := homePts > awayPts
	return append(records,
		GameRecord{
			GameID: gameID, Date: day(d),
			TeamAbbr: home, OpponentAbbr: away,
			IsHome: true, Win: homeWin,
			Points: homePts, PlusMinus: homePts - awayPts,
		},
		GameRecord{
			GameID: gameID, Date: day(d),
			TeamAbbr: away, OpponentAbbr: home,
			IsHome: false, Win: !homeWin,
			Points: awayPts, PlusMinus: awayPts - homePts,
		},
	)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestBuild_OneRowPerGameSkippingColdStarts(t *testing.T) {
	var records []GameRecord
	records = pairedGame(records, "g1", 1, "BOS", "NYK", 110, 100)
	records = pairedGame(records, "g2", 3, "NYK", "BOS", 105, 108)
	records = pairedGame(records, "g3", 5, "BOS", "NYK", 120, 90)

	rows := NewBuilder(10, quietLogger()).Build(records)

	// g1 has no history for either side and g2/g3 have one prior game
	// apiece, so only g2 and g3 survive.
	require.Len(t, rows, 2)
	assert.Equal(t, "g2", rows[0].GameID)
	assert.Equal(t, "g3", rows[1].GameID)
}

func TestBuild_LabelAndDifferentials(t *testing.T) {
	var records []GameRecord
	records = pairedGame(records, "g1", 1, "BOS", "NYK", 110, 100)
	records = pairedGame(records, "g2", 3, "NYK", "BOS", 105, 108)

	rows := NewBuilder(10, quietLogger()).Build(records)
	require.Len(t, rows, 1)
	row := rows[0]

	// NYK hosts g2 off a 100-point loss, BOS visits off a 110-point win.
	assert.Equal(t, "NYK", row.HomeTeamAbbr)
	assert.Equal(t, "BOS", row.AwayTeamAbbr)
	assert.Equal(t, 0, row.HomeWin)
	assert.InDelta(t, 0.0, row.HomeWinPct, 1e-12)
	assert.InDelta(t, 1.0, row.AwayWinPct, 1e-12)
	assert.InDelta(t, 100.0, row.HomePPG, 1e-12)
	assert.InDelta(t, 110.0, row.AwayPPG, 1e-12)
	assert.InDelta(t, row.HomeWinPct-row.AwayWinPct, row.WinPctDiff, 1e-12)
	assert.InDelta(t, row.HomePPG-row.AwayPPG, row.PPGDiff, 1e-12)
	assert.InDelta(t, row.HomePointDiff-row.AwayPointDiff, row.PointDiffDiff, 1e-12)
}

func TestBuild_DeterministicOrder(t *testing.T) {
	var records []GameRecord
	records = pairedGame(records, "g1", 1, "BOS", "NYK", 110, 100)
	records = pairedGame(records, "g3", 5, "BOS", "NYK", 120, 90)
	records = pairedGame(records, "g2", 3, "NYK", "BOS", 105, 108)
	records = pairedGame(records, "g4", 5, "NYK", "BOS", 99, 101)

	builder := NewBuilder(10, quietLogger())
	first := builder.Build(records)

	// Shuffle the input; output must not change.
	reversed := make([]GameRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}
	second := builder.Build(reversed)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
	// Same-date games ordered by game id.
	require.Len(t, first, 3)
	assert.Equal(t, "g3", first[1].GameID)
	assert.Equal(t, "g4", first[2].GameID)
}

func TestBuild_VectorMatchesRowFields(t *testing.T) {
	var records []GameRecord
	records = pairedGame(records, "g1", 1, "BOS", "NYK", 110, 100)
	records = pairedGame(records, "g2", 3, "NYK", "BOS", 105, 108)

	rows := NewBuilder(10, quietLogger()).Build(records)
	require.Len(t, rows, 1)

	vec := rows[0].Vector()
	require.Len(t, vec, len(Columns))
	assert.InDelta(t, rows[0].HomeWinPct, vec[0], 1e-12)
	assert.InDelta(t, rows[0].AwayWinPct, vec[4], 1e-12)
	assert.InDelta(t, rows[0].WinPctDiff, vec[8], 1e-12)
}
