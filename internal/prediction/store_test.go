package prediction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStatsCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "team_stats.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTeamStatsCSV(t *testing.T) {
	path := writeStatsCSV(t, "abbr,win_pct,ppg,opp_ppg\nBOS,0.72,118.5,110.2\nNYK,0.55,112.0,111.0\n")

	store, err := LoadTeamStatsCSV(path, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	bos, ok := store.Get("BOS")
	require.True(t, ok)
	assert.InDelta(t, 0.72, bos.WinPct, 1e-12)
	assert.InDelta(t, 118.5, bos.PPG, 1e-12)
	// Point differential is derived from the two scoring columns.
	assert.InDelta(t, 8.3, bos.PointDiff, 1e-9)
}

func TestLoadTeamStatsCSV_ColumnOrderIrrelevant(t *testing.T) {
	path := writeStatsCSV(t, "ppg,abbr,opp_ppg,win_pct\n118.5,BOS,110.2,0.72\n")

	store, err := LoadTeamStatsCSV(path, nil)
	require.NoError(t, err)
	bos, ok := store.Get("BOS")
	require.True(t, ok)
	assert.InDelta(t, 118.5, bos.PPG, 1e-12)
}

func TestLoadTeamStatsCSV_MissingColumn(t *testing.T) {
	path := writeStatsCSV(t, "abbr,win_pct,ppg\nBOS,0.72,118.5\n")

	_, err := LoadTeamStatsCSV(path, nil)
	assert.Error(t, err)
}

func TestLoadTeamStatsCSV_BadNumber(t *testing.T) {
	path := writeStatsCSV(t, "abbr,win_pct,ppg,opp_ppg\nBOS,not-a-number,118.5,110.2\n")

	_, err := LoadTeamStatsCSV(path, nil)
	assert.Error(t, err)
}

func TestLoadTeamStatsCSV_FileMissing(t *testing.T) {
	_, err := LoadTeamStatsCSV(filepath.Join(t.TempDir(), "nope.csv"), nil)
	assert.Error(t, err)
}

func TestGetOrDefault_UnknownTeam(t *testing.T) {
	store := NewTeamStatsStore()

	stats := store.GetOrDefault("ZZZ")
	assert.Equal(t, "ZZZ", stats.Abbreviation)
	assert.InDelta(t, LeagueAverageStats.WinPct, stats.WinPct, 1e-12)
	assert.InDelta(t, LeagueAverageStats.PPG, stats.PPG, 1e-12)
	assert.InDelta(t, LeagueAverageStats.OppPPG, stats.OppPPG, 1e-12)

	_, ok := store.Get("ZZZ")
	assert.False(t, ok)
}

func TestAll_SortedByAbbreviation(t *testing.T) {
	path := writeStatsCSV(t, "abbr,win_pct,ppg,opp_ppg\nNYK,0.55,112.0,111.0\nBOS,0.72,118.5,110.2\nATL,0.40,108.0,113.0\n")

	store, err := LoadTeamStatsCSV(path, nil)
	require.NoError(t, err)

	all := store.All()
	require.Len(t, all, 3)
	assert.Equal(t, "ATL", all[0].Abbreviation)
	assert.Equal(t, "BOS", all[1].Abbreviation)
	assert.Equal(t, "NYK", all[2].Abbreviation)
}
