package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/DevelopmentCats/meowventure/internal/game"
)

// ListCats returns the catalog's cats as ready-to-fight level 1 templates.
func (h *Handler) ListCats(c *gin.Context) {
	ids := make([]string, 0, len(h.catalog.Cats))
	for id := range h.catalog.Cats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cats := make([]*game.Cat, 0, len(ids))
	for _, id := range ids {
		cat, err := h.catalog.NewCat(id)
		if err != nil {
			continue
		}
		cats = append(cats, cat)
	}
	c.JSON(http.StatusOK, gin.H{"cats": cats})
}

// ListAbilities returns the catalog's ability definitions.
func (h *Handler) ListAbilities(c *gin.Context) {
	ids := make([]string, 0, len(h.catalog.Abilities))
	for id := range h.catalog.Abilities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	abilities := make([]game.Ability, 0, len(ids))
	for _, id := range ids {
		abilities = append(abilities, h.catalog.Abilities[id])
	}
	c.JSON(http.StatusOK, gin.H{"abilities": abilities})
}
