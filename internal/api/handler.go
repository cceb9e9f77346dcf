package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DevelopmentCats/meowventure/internal/arena"
	"github.com/DevelopmentCats/meowventure/internal/catalog"
	"github.com/DevelopmentCats/meowventure/internal/constants"
	"github.com/DevelopmentCats/meowventure/internal/game"
	"github.com/DevelopmentCats/meowventure/internal/roster"
)

// Handler bundles the services the HTTP surface delegates to.
type Handler struct {
	arena   *arena.Service
	roster  *roster.Service
	catalog *catalog.Catalog
}

func NewHandler(arenaSvc *arena.Service, rosterSvc *roster.Service, cat *catalog.Catalog) *Handler {
	return &Handler{arena: arenaSvc, roster: rosterSvc, catalog: cat}
}

// Register mounts every route under the API prefix.
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group(constants.RouteAPIPrefix)
	api.GET(constants.RouteCats, h.ListCats)
	api.GET(constants.RouteAbilities, h.ListAbilities)
	api.POST(constants.RouteBattles, h.CreateBattle)
	api.GET(constants.RouteBattleByID, h.GetBattle)
	api.DELETE(constants.RouteBattleByID, h.EndBattle)
	api.POST(constants.RouteBattleTurn, h.ProcessTurn)
	api.POST(constants.RouteBattleCancel, h.CancelBattle)
	api.POST(constants.RouteSummon, h.Summon)
	api.POST(constants.RouteSummonMulti, h.MultiSummon)
	api.GET(constants.RouteRoster, h.GetRoster)
}

// writeError maps the service error taxonomy onto HTTP status codes. msg
// is the stable constants-table message; the wrapped error rides along in
// the details key.
func writeError(c *gin.Context, err error, msg string) {
	body := gin.H{constants.JSONKeyError: msg, constants.JSONKeyDetails: err.Error()}
	switch {
	case errors.Is(err, game.ErrValidation):
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, game.ErrResource):
		c.JSON(http.StatusNotFound, body)
	case errors.Is(err, game.ErrConcurrency):
		c.JSON(http.StatusConflict, body)
	default:
		c.JSON(http.StatusInternalServerError, body)
	}
}
