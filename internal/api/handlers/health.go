package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hoopiq/courtcast/internal/prediction"
)

type HealthHandler struct {
	service *prediction.Service
}

func NewHealthHandler(service *prediction.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// GetHealth reports liveness plus whether a trained model is serving.
// The service is healthy in heuristic mode; model_loaded tells operators
// which path requests are taking.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"service":       "courtcast",
		"model_loaded":  h.service.ModelLoaded(),
		"model_version": h.service.ModelVersion(),
		"teams_loaded":  h.service.Store().Len(),
		"time":          time.Now().UTC(),
	})
}
