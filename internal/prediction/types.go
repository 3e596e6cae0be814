package prediction

import (
	"encoding/json"
	"fmt"
)

// TeamRef is the tagged union a request may carry for each side: either a
// bare team abbreviation resolved through the stats store, or an explicit
// stats object. Explicit stats may omit fields; omissions default to the
// league-average policy. The union is resolved once at the service
// boundary; nothing numeric ever sees it.
type TeamRef struct {
	Abbr  string
	Stats *ExplicitStats
}

// ExplicitStats is the object form of a team reference. Pointer fields
// distinguish "absent" from zero.
type ExplicitStats struct {
	Abbreviation string   `json:"abbreviation"`
	WinPct       *float64 `json:"win_pct"`
	PPG          *float64 `json:"ppg"`
	OppPPG       *float64 `json:"opp_ppg"`
	PointDiff    *float64 `json:"point_diff"`
}

// UnmarshalJSON accepts either a JSON string ("BOS") or a stats object.
func (r *TeamRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.Abbr)
	}
	var stats ExplicitStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return fmt.Errorf("team reference must be an abbreviation string or a stats object: %w", err)
	}
	r.Stats = &stats
	return nil
}

// PredictRequest is a single-matchup prediction request.
type PredictRequest struct {
	HomeTeam *TeamRef `json:"home_team"`
	AwayTeam *TeamRef `json:"away_team"`
}

// BatchItem is one matchup inside a batch request. GameID is an optional
// caller-supplied correlation id echoed back on the matching result.
type BatchItem struct {
	GameID   string   `json:"game_id"`
	HomeTeam *TeamRef `json:"home_team"`
	AwayTeam *TeamRef `json:"away_team"`
}

// BatchRequest is a sequence of matchups scored independently.
type BatchRequest struct {
	Games []BatchItem `json:"games"`
}

// Model source markers on a PredictionResult.
const (
	SourceModel     = "ml_model"
	SourceHeuristic = "heuristic"
)

// PredictionResult is the outcome of scoring one matchup. Probabilities
// are percentages rounded to one decimal and sum to 100.
type PredictionResult struct {
	HomeTeam           string  `json:"home_team"`
	AwayTeam           string  `json:"away_team"`
	HomeWinProbability float64 `json:"home_win_probability"`
	AwayWinProbability float64 `json:"away_win_probability"`
	PredictedWinner    string  `json:"predicted_winner"`
	Confidence         float64 `json:"confidence"`
	ModelUsed          string  `json:"model_used"`
}

// BatchResult pairs a correlation id with either a result or an isolated
// per-item error; one bad matchup never aborts its siblings.
type BatchResult struct {
	GameID     string            `json:"game_id"`
	Prediction *PredictionResult `json:"prediction,omitempty"`
	Error      string            `json:"error,omitempty"`
}
