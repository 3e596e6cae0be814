package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hoopiq/courtcast/internal/models"
	"github.com/hoopiq/courtcast/internal/prediction"
	"github.com/hoopiq/courtcast/internal/services"
	"github.com/hoopiq/courtcast/pkg/database"
	"github.com/hoopiq/courtcast/pkg/utils"
)

// predictionCache is the slice of CacheService the predict handler uses.
type predictionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// PredictHandler serves single and batch prediction requests. The cache
// and database are both optional; a nil cache skips the read-through and
// a nil database skips audit logging.
type PredictHandler struct {
	service  *prediction.Service
	cache    predictionCache
	db       *database.DB
	cacheTTL time.Duration
	logger   *logrus.Logger
}

func NewPredictHandler(
	service *prediction.Service,
	cache *services.CacheService,
	db *database.DB,
	cacheTTL time.Duration,
	logger *logrus.Logger,
) *PredictHandler {
	h := &PredictHandler{
		service:  service,
		db:       db,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
	// Keep the interface nil when no cache is configured; a typed nil
	// would defeat the h.cache != nil guards.
	if cache != nil {
		h.cache = cache
	}
	return h
}

// Predict scores one matchup.
func (h *PredictHandler) Predict(c *gin.Context) {
	var req prediction.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request format", err.Error())
		return
	}

	home, away, err := h.service.Resolve(req.HomeTeam, req.AwayTeam)
	if err != nil {
		if errors.Is(err, prediction.ErrMalformedRequest) {
			utils.SendValidationError(c, "Invalid request", err.Error())
			return
		}
		utils.SendInternalError(c, "Failed to resolve teams")
		return
	}

	cacheKey := services.PredictionCacheKey(home, away, h.service.ModelVersion())
	if h.cache != nil {
		var cached prediction.PredictionResult
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil {
			// A cache hit is still a served prediction; it is audited
			// the same as a freshly computed one.
			h.audit(cached)
			utils.SendSuccess(c, cached)
			return
		}
	}

	result := h.service.Predict(home, away)

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), cacheKey, result, h.cacheTTL); err != nil {
			h.logger.WithError(err).Debug("Failed to cache prediction")
		}
	}
	h.audit(result)

	utils.SendSuccess(c, result)
}

// PredictBatch scores a sequence of matchups independently, preserving
// order and isolating per-item failures.
func (h *PredictHandler) PredictBatch(c *gin.Context) {
	var req prediction.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request format", err.Error())
		return
	}
	if len(req.Games) == 0 {
		utils.SendValidationError(c, "Invalid request", "games must not be empty")
		return
	}

	results := h.service.PredictBatch(req.Games)
	for _, r := range results {
		if r.Prediction != nil {
			h.audit(*r.Prediction)
		}
	}

	utils.SendSuccess(c, gin.H{"predictions": results})
}

// audit best-effort persists a served prediction. Serving never fails
// because the log write did.
func (h *PredictHandler) audit(result prediction.PredictionResult) {
	if h.db == nil {
		return
	}
	row := models.NewPredictionLog(result, h.service.ModelVersion())
	if err := models.SavePrediction(h.db, row); err != nil {
		h.logger.WithError(err).Warn("Failed to persist prediction audit row")
	}
}

// History returns recent audit rows.
func (h *PredictHandler) History(c *gin.Context) {
	if h.db == nil {
		utils.SendNotFound(c, "Prediction history is not enabled")
		return
	}
	rows, err := models.RecentPredictions(h.db, 100)
	if err != nil {
		h.logger.WithError(err).Error("Failed to query prediction history")
		utils.SendInternalError(c, "Failed to load prediction history")
		return
	}
	utils.SendSuccess(c, gin.H{"predictions": rows})
}
