package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hoopiq/courtcast/internal/api/handlers"
	"github.com/hoopiq/courtcast/internal/prediction"
	"github.com/hoopiq/courtcast/internal/services"
	"github.com/hoopiq/courtcast/pkg/config"
	"github.com/hoopiq/courtcast/pkg/database"
)

// SetupRoutes configures all API routes on the given router group.
// cache and db may be nil; the handlers degrade accordingly.
func SetupRoutes(
	group *gin.RouterGroup,
	service *prediction.Service,
	cache *services.CacheService,
	db *database.DB,
	cfg *config.Config,
	logger *logrus.Logger,
) {
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	predictHandler := handlers.NewPredictHandler(service, cache, db, cacheTTL, logger)
	teamsHandler := handlers.NewTeamsHandler(service.Store())

	group.POST("/predict", predictHandler.Predict)
	group.POST("/predict/batch", predictHandler.PredictBatch)
	group.GET("/predictions", predictHandler.History)

	group.GET("/teams", teamsHandler.ListTeams)
	group.GET("/teams/:abbr", teamsHandler.GetTeam)
}
