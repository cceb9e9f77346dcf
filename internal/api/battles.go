package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DevelopmentCats/meowventure/internal/arena"
	"github.com/DevelopmentCats/meowventure/internal/constants"
	"github.com/DevelopmentCats/meowventure/internal/game"
	"github.com/DevelopmentCats/meowventure/internal/logging"
	"github.com/DevelopmentCats/meowventure/internal/narrator"
	"github.com/DevelopmentCats/meowventure/internal/roster"
)

// CreateBattle starts a new battle from the posted team composition.
func (h *Handler) CreateBattle(c *gin.Context) {
	var params arena.CreateBattleParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	battle, err := h.arena.CreateBattle(params)
	if err != nil {
		writeError(c, err, constants.ErrFailedCreateBattle)
		return
	}
	c.JSON(http.StatusCreated, battle)
}

// GetBattle returns the battle's current state.
func (h *Handler) GetBattle(c *gin.Context) {
	battle, err := h.arena.BattleState(c.Param("battleID"))
	if err != nil {
		writeError(c, err, constants.ErrBattleNotFound)
		return
	}
	c.JSON(http.StatusOK, battle)
}

type turnRequest struct {
	Action *game.Action `json:"action"`
}

type turnResponse struct {
	LogLines     []string            `json:"log_lines"`
	BattleActive bool                `json:"battle_active"`
	NextActor    string              `json:"next_actor,omitempty"`
	State        *game.BattleState   `json:"state,omitempty"`
	Winner       game.Side           `json:"winner,omitempty"`
	Reason       game.ConcludeReason `json:"reason,omitempty"`
	Rewards      []roster.Reward     `json:"rewards,omitempty"`
	Narration    string              `json:"narration,omitempty"`
}

// ProcessTurn advances the battle one step. The request body is optional;
// auto battles post an empty object, player battles include the action.
func (h *Handler) ProcessTurn(c *gin.Context) {
	battleID := c.Param("battleID")

	var req turnRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
	}

	res, err := h.arena.ProcessTurn(battleID, req.Action)
	if err != nil {
		writeError(c, err, constants.ErrFailedProcessTurn)
		return
	}

	out := turnResponse{
		LogLines:     res.LogLines,
		BattleActive: res.BattleActive,
		NextActor:    res.NextActor,
		State:        res.State,
	}
	if !res.BattleActive {
		out.Rewards, out.Winner, out.Reason, out.Narration = h.settleBattle(c, battleID)
	}
	c.JSON(http.StatusOK, out)
}

// settleBattle applies win rewards once the concluding turn has been
// processed and asks the narrator for a closing line.
func (h *Handler) settleBattle(c *gin.Context, battleID string) ([]roster.Reward, game.Side, game.ConcludeReason, string) {
	battle, err := h.arena.BattleState(battleID)
	if err != nil {
		return nil, game.SideNone, "", ""
	}

	var rewards []roster.Reward
	if battle.Winner == game.SideTeam1 && battle.PlayerID != "" {
		catIDs := make([]string, 0, len(battle.Team1))
		for _, cat := range battle.Team1 {
			catIDs = append(catIDs, cat.ID)
		}
		rewards, err = h.roster.ApplyBattleRewards(battle.PlayerID, catIDs)
		if err != nil {
			logging.Error("failed to apply battle rewards", err, logging.Fields{
				constants.LogFieldBattleID: battleID,
				constants.LogFieldPlayerID: battle.PlayerID,
			})
		}
	}

	logging.Info("battle concluded", logging.Fields{
		constants.LogFieldBattleID: battleID,
		constants.LogFieldWinner:   string(battle.Winner),
		constants.LogFieldRound:    battle.Round,
	})
	narration := narrator.Narrate(c.Request.Context(), battleID, battle.Log)
	return rewards, battle.Winner, battle.Reason, narration
}

// CancelBattle aborts a battle with no winner.
func (h *Handler) CancelBattle(c *gin.Context) {
	battle, err := h.arena.CancelBattle(c.Param("battleID"))
	if err != nil {
		writeError(c, err, constants.ErrFailedCancelBattle)
		return
	}
	c.JSON(http.StatusOK, battle)
}

// EndBattle removes a concluded battle and returns its final state with a
// narrated summary when the narrator is configured.
func (h *Handler) EndBattle(c *gin.Context) {
	battle, err := h.arena.EndBattle(c.Param("battleID"))
	if err != nil {
		writeError(c, err, constants.ErrFailedEndBattle)
		return
	}
	narration := narrator.Narrate(c.Request.Context(), battle.ID, battle.Log)
	c.JSON(http.StatusOK, gin.H{
		"battle":    battle,
		"narration": narration,
	})
}
