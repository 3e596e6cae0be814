package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hoopiq/courtcast/internal/prediction"
	"github.com/hoopiq/courtcast/pkg/utils"
)

// TeamsHandler exposes the team stats lookup backing identifier-based
// prediction requests.
type TeamsHandler struct {
	store *prediction.TeamStatsStore
}

func NewTeamsHandler(store *prediction.TeamStatsStore) *TeamsHandler {
	return &TeamsHandler{store: store}
}

// ListTeams returns every known team's stats profile.
func (h *TeamsHandler) ListTeams(c *gin.Context) {
	utils.SendSuccess(c, gin.H{"teams": h.store.All()})
}

// GetTeam returns one team's stats profile.
func (h *TeamsHandler) GetTeam(c *gin.Context) {
	abbr := c.Param("abbr")
	stats, ok := h.store.Get(abbr)
	if !ok {
		utils.SendNotFound(c, "Unknown team "+abbr)
		return
	}
	utils.SendSuccess(c, stats)
}
