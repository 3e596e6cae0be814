package prediction

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
)

// TeamStats is a team's current four-stat profile as served to the model.
type TeamStats struct {
	Abbreviation string  `json:"abbreviation"`
	WinPct       float64 `json:"win_pct"`
	PPG          float64 `json:"ppg"`
	OppPPG       float64 `json:"opp_ppg"`
	PointDiff    float64 `json:"point_diff"`
}

// LeagueAverageStats is the named default policy for unknown teams and
// unspecified stat fields: a neutral league-average profile. Tests assert
// against this directly; do not inline the numbers elsewhere.
var LeagueAverageStats = TeamStats{
	WinPct:    0.5,
	PPG:       110,
	OppPPG:    110,
	PointDiff: 0,
}

// TeamStatsStore is the in-memory team lookup, populated once at startup
// from the team stats table and read-only afterwards. Reloads, if ever
// needed, build a new store and swap it wholesale.
type TeamStatsStore struct {
	teams map[string]TeamStats
}

// NewTeamStatsStore builds an empty store. Lookups fall through to the
// league-average default, so serving works even without the stats table.
func NewTeamStatsStore() *TeamStatsStore {
	return &TeamStatsStore{teams: make(map[string]TeamStats)}
}

// LoadTeamStatsCSV populates a store from the team stats table
// (columns abbr, win_pct, ppg, opp_ppg). The point differential is
// derived, not stored.
func LoadTeamStatsCSV(path string, logger *logrus.Logger) (*TeamStatsStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open team stats table: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read team stats table: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("team stats table %s is empty", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	for _, name := range []string{"abbr", "win_pct", "ppg", "opp_ppg"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("team stats table missing column %q", name)
		}
	}

	store := NewTeamStatsStore()
	for i, row := range rows[1:] {
		stats := TeamStats{Abbreviation: row[col["abbr"]]}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"win_pct", &stats.WinPct},
			{"ppg", &stats.PPG},
			{"opp_ppg", &stats.OppPPG},
		}
		for _, fld := range fields {
			v, err := strconv.ParseFloat(row[col[fld.name]], 64)
			if err != nil {
				return nil, fmt.Errorf("team stats row %d: bad %s: %w", i+2, fld.name, err)
			}
			*fld.dst = v
		}
		stats.PointDiff = stats.PPG - stats.OppPPG
		store.teams[stats.Abbreviation] = stats
	}

	if logger != nil {
		logger.WithField("teams", len(store.teams)).Info("Team stats loaded")
	}
	return store, nil
}

// Get returns the stats for a team abbreviation.
func (s *TeamStatsStore) Get(abbr string) (TeamStats, bool) {
	stats, ok := s.teams[abbr]
	return stats, ok
}

// GetOrDefault resolves an abbreviation, falling back to the league
// average profile (carrying the requested abbreviation) for unknown teams.
func (s *TeamStatsStore) GetOrDefault(abbr string) TeamStats {
	if stats, ok := s.teams[abbr]; ok {
		return stats
	}
	stats := LeagueAverageStats
	stats.Abbreviation = abbr
	return stats
}

// All returns every team sorted by abbreviation.
func (s *TeamStatsStore) All() []TeamStats {
	out := make([]TeamStats, 0, len(s.teams))
	for _, stats := range s.teams {
		out = append(out, stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Abbreviation < out[j].Abbreviation })
	return out
}

// Len returns the number of teams loaded.
func (s *TeamStatsStore) Len() int { return len(s.teams) }
