package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DevelopmentCats/meowventure/internal/constants"
)

type summonRequest struct {
	PlayerID string `json:"player_id"`
}

// Summon performs one paid draw from the pool for the player.
func (h *Handler) Summon(c *gin.Context) {
	var req summonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	result, err := h.roster.Summon(req.PlayerID, c.Param("poolID"))
	if err != nil {
		writeError(c, err, constants.ErrFailedDrawSummon)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MultiSummon performs the ten-draw against a premium pool.
func (h *Handler) MultiSummon(c *gin.Context) {
	var req summonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	results, err := h.roster.MultiSummon(req.PlayerID, c.Param("poolID"))
	if err != nil {
		writeError(c, err, constants.ErrFailedDrawSummon)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetRoster lists the player's owned cats.
func (h *Handler) GetRoster(c *gin.Context) {
	entries, err := h.roster.Roster(c.Param("playerID"))
	if err != nil {
		writeError(c, err, constants.ErrFailedFetchRoster)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roster": entries})
}
