package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hoopiq/courtcast/internal/prediction"
	"github.com/hoopiq/courtcast/pkg/database"
)

// Prediction is one served prediction, persisted for auditing. Writes are
// best-effort: a failed insert is logged by the caller and never fails
// the request that produced it.
type Prediction struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HomeTeam           string    `gorm:"index" json:"home_team"`
	AwayTeam           string    `gorm:"index" json:"away_team"`
	HomeWinProbability float64   `json:"home_win_probability"`
	AwayWinProbability float64   `json:"away_win_probability"`
	PredictedWinner    string    `json:"predicted_winner"`
	Confidence         float64   `json:"confidence"`
	ModelUsed          string    `json:"model_used"`
	ModelVersion       string    `json:"model_version"`
	CreatedAt          time.Time `json:"created_at"`
}

func (Prediction) TableName() string {
	return "predictions"
}

func (p *Prediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewPredictionLog builds an audit row from a served result.
func NewPredictionLog(result prediction.PredictionResult, modelVersion string) *Prediction {
	return &Prediction{
		ID:                 uuid.New(),
		HomeTeam:           result.HomeTeam,
		AwayTeam:           result.AwayTeam,
		HomeWinProbability: result.HomeWinProbability,
		AwayWinProbability: result.AwayWinProbability,
		PredictedWinner:    result.PredictedWinner,
		Confidence:         result.Confidence,
		ModelUsed:          result.ModelUsed,
		ModelVersion:       modelVersion,
	}
}

// SavePrediction inserts an audit row.
func SavePrediction(db *database.DB, p *Prediction) error {
	return db.Create(p).Error
}

// RecentPredictions returns the newest audit rows, most recent first.
func RecentPredictions(db *database.DB, limit int) ([]Prediction, error) {
	var rows []Prediction
	err := db.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
