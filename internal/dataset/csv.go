// Package dataset reads and writes the flat CSV tables exchanged with the
// ingestion side: the two-rows-per-game historical table and the derived
// feature table.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hoopiq/courtcast/internal/features"
)

const dateLayout = "2006-01-02"

var gameColumns = []string{
	"game_id", "game_date", "team_abbr", "opponent_abbr", "is_home", "win",
	"points", "fg_pct", "fg3_pct", "ft_pct", "assists", "rebounds",
	"steals", "blocks", "turnovers", "plus_minus",
}

// LoadGameRecords parses the historical games table. Column order is taken
// from the header row, so extra columns are tolerated and column order is
// free to vary.
func LoadGameRecords(path string) ([]features.GameRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open games table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read games table: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("games table %s is empty", path)
	}

	col := indexColumns(rows[0])
	for _, name := range gameColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("games table missing column %q", name)
		}
	}

	records := make([]features.GameRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseGameRow(row, col)
		if err != nil {
			return nil, fmt.Errorf("games table row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseGameRow(row []string, col map[string]int) (features.GameRecord, error) {
	var rec features.GameRecord
	var err error

	rec.GameID = row[col["game_id"]]
	rec.TeamAbbr = row[col["team_abbr"]]
	rec.OpponentAbbr = row[col["opponent_abbr"]]

	rec.Date, err = time.Parse(dateLayout, row[col["game_date"]])
	if err != nil {
		return rec, fmt.Errorf("bad game_date: %w", err)
	}

	isHome, err := strconv.Atoi(row[col["is_home"]])
	if err != nil {
		return rec, fmt.Errorf("bad is_home: %w", err)
	}
	rec.IsHome = isHome == 1

	win, err := strconv.Atoi(row[col["win"]])
	if err != nil {
		return rec, fmt.Errorf("bad win: %w", err)
	}
	rec.Win = win == 1

	numeric := []struct {
		name string
		dst  *float64
	}{
		{"points", &rec.Points},
		{"fg_pct", &rec.FGPct},
		{"fg3_pct", &rec.FG3Pct},
		{"ft_pct", &rec.FTPct},
		{"assists", &rec.Assists},
		{"rebounds", &rec.Rebounds},
		{"steals", &rec.Steals},
		{"blocks", &rec.Blocks},
		{"turnovers", &rec.Turnovers},
		{"plus_minus", &rec.PlusMinus},
	}
	for _, n := range numeric {
		*n.dst, err = strconv.ParseFloat(row[col[n.name]], 64)
		if err != nil {
			return rec, fmt.Errorf("bad %s: %w", n.name, err)
		}
	}
	return rec, nil
}

// featureColumns is the on-disk layout of the feature table: bookkeeping
// columns, then the model features in training order, then the label.
func featureColumns() []string {
	cols := []string{"game_id", "game_date", "home_team_abbr", "away_team_abbr"}
	cols = append(cols, features.Columns...)
	return append(cols, "home_win")
}

// WriteFeatureRows writes the feature table. Rows are written in input
// order; the builder already emits a deterministic ordering.
func WriteFeatureRows(path string, rows []features.FeatureRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create feature table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(featureColumns()); err != nil {
		return fmt.Errorf("failed to write feature header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.GameID, row.Date.Format(dateLayout), row.HomeTeamAbbr, row.AwayTeamAbbr}
		for _, v := range row.Vector() {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		record = append(record, strconv.Itoa(row.HomeWin))
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write feature row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// LoadFeatureRows reads a feature table previously written by
// WriteFeatureRows.
func LoadFeatureRows(path string) ([]features.FeatureRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open feature table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read feature table: %w", err)
	}
	if len(all) < 1 {
		return nil, fmt.Errorf("feature table %s is empty", path)
	}

	col := indexColumns(all[0])
	for _, name := range featureColumns() {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("feature table missing column %q", name)
		}
	}

	rows := make([]features.FeatureRow, 0, len(all)-1)
	for i, record := range all[1:] {
		row, err := parseFeatureRow(record, col)
		if err != nil {
			return nil, fmt.Errorf("feature table row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseFeatureRow(record []string, col map[string]int) (features.FeatureRow, error) {
	var row features.FeatureRow
	var err error

	row.GameID = record[col["game_id"]]
	row.HomeTeamAbbr = record[col["home_team_abbr"]]
	row.AwayTeamAbbr = record[col["away_team_abbr"]]
	row.Date, err = time.Parse(dateLayout, record[col["game_date"]])
	if err != nil {
		return row, fmt.Errorf("bad game_date: %w", err)
	}

	numeric := []struct {
		name string
		dst  *float64
	}{
		{"home_win_pct", &row.HomeWinPct},
		{"home_ppg", &row.HomePPG},
		{"home_opp_ppg", &row.HomeOppPPG},
		{"home_point_diff", &row.HomePointDiff},
		{"away_win_pct", &row.AwayWinPct},
		{"away_ppg", &row.AwayPPG},
		{"away_opp_ppg", &row.AwayOppPPG},
		{"away_point_diff", &row.AwayPointDiff},
		{"win_pct_diff", &row.WinPctDiff},
		{"ppg_diff", &row.PPGDiff},
		{"point_diff_diff", &row.PointDiffDiff},
	}
	for _, n := range numeric {
		*n.dst, err = strconv.ParseFloat(record[col[n.name]], 64)
		if err != nil {
			return row, fmt.Errorf("bad %s: %w", n.name, err)
		}
	}

	row.HomeWin, err = strconv.Atoi(record[col["home_win"]])
	if err != nil {
		return row, fmt.Errorf("bad home_win: %w", err)
	}
	return row, nil
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	return col
}
