package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/DevelopmentCats/meowventure/internal/arena"
	"github.com/DevelopmentCats/meowventure/internal/catalog"
	"github.com/DevelopmentCats/meowventure/internal/constants"
	"github.com/DevelopmentCats/meowventure/internal/gacha"
	"github.com/DevelopmentCats/meowventure/internal/game"
	"github.com/DevelopmentCats/meowventure/internal/roster"
)

const testCatalogJSON = `{
  "cat_list": [
    {
      "id": "tabby",
      "name": "Tabby",
      "rarity": "common",
      "affinity": "flame",
      "base_stats": {"hp": 100, "attack": 20, "defense": 10, "speed": 15, "crit_rate": 0, "crit_damage": 1.5},
      "growth_rates": {"hp": 5, "attack": 5, "defense": 5, "speed": 5},
      "abilities": ["pounce"],
      "personality_type": "fierce",
      "battle_style": "aggressive"
    },
    {
      "id": "tuxedo",
      "name": "Tuxedo",
      "rarity": "uncommon",
      "affinity": "aqua",
      "base_stats": {"hp": 100, "attack": 15, "defense": 5, "speed": 10, "crit_rate": 0, "crit_damage": 1.5},
      "growth_rates": {"hp": 5, "attack": 5, "defense": 5, "speed": 5},
      "abilities": []
    }
  ],
  "ability_list": [
    {"id": "pounce", "name": "Pounce", "category": "damage", "energy_cost": 20, "damage_multiplier": 1.5}
  ],
  "pool_list": [
    {"id": "alley", "premium": false, "cost": 100, "rarities": ["common", "uncommon"]}
  ],
  "affinity_advantages": {"flame": ["leaf"]}
}`

type memoryRepo struct {
	roster   map[string]*game.RosterEntry
	profiles map[string]*game.PlayerProfile
	stats    []game.AbilityStat
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		roster:   map[string]*game.RosterEntry{},
		profiles: map[string]*game.PlayerProfile{},
	}
}

func (m *memoryRepo) RosterByPlayer(playerID string) ([]game.RosterEntry, error) {
	var out []game.RosterEntry
	for _, e := range m.roster {
		if e.PlayerID == playerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memoryRepo) RosterEntry(playerID, catID string) (*game.RosterEntry, error) {
	e, ok := m.roster[playerID+"/"+catID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memoryRepo) SaveRosterEntry(entry *game.RosterEntry) error {
	cp := *entry
	m.roster[entry.PlayerID+"/"+entry.CatID] = &cp
	return nil
}

func (m *memoryRepo) Profile(playerID string) (*game.PlayerProfile, error) {
	p, ok := m.profiles[playerID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memoryRepo) SaveProfile(profile *game.PlayerProfile) error {
	cp := *profile
	m.profiles[profile.PlayerID] = &cp
	return nil
}

func (m *memoryRepo) AbilityStats() ([]game.AbilityStat, error) {
	return append([]game.AbilityStat(nil), m.stats...), nil
}

func (m *memoryRepo) SaveAbilityStats(stats []game.AbilityStat) error {
	m.stats = append([]game.AbilityStat(nil), stats...)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(testCatalogJSON), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	repo := newMemoryRepo()
	arenaSvc := arena.NewService(cat, arena.NewRegistry(), nil)
	rosterSvc := roster.NewService(repo, cat, gacha.NewEngine(cat, rand.New(rand.NewSource(1))))

	r := gin.New()
	NewHandler(arenaSvc, rosterSvc, cat).Register(r)
	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListCatsAndAbilities(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/cats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("cats status %d: %s", w.Code, w.Body.String())
	}
	var catsOut struct {
		Cats []game.Cat `json:"cats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &catsOut); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(catsOut.Cats) != 2 {
		t.Fatalf("got %d cats", len(catsOut.Cats))
	}

	w = doJSON(t, r, http.MethodGet, "/api/abilities", "")
	if w.Code != http.StatusOK {
		t.Fatalf("abilities status %d", w.Code)
	}
}

func TestBattleLifecycleOverHTTP(t *testing.T) {
	r, repo := newTestRouter(t)
	repo.SaveRosterEntry(&game.RosterEntry{
		PlayerID: "p1", CatID: "tabby", Level: 5, EvolutionStage: 1, Happiness: 50,
	})

	body := `{
	  "player_id": "p1",
	  "team1": [{"cat_id": "tabby", "level": 5}],
	  "team2": [{"cat_id": "tuxedo", "level": 5}],
	  "auto": true
	}`
	w := doJSON(t, r, http.MethodPost, "/api/battles", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", w.Code, w.Body.String())
	}
	var battle game.Battle
	if err := json.Unmarshal(w.Body.Bytes(), &battle); err != nil {
		t.Fatalf("decode battle: %v", err)
	}
	if battle.ID == "" || battle.Phase != game.PhaseInitialized {
		t.Fatalf("battle not created: %+v", battle)
	}

	w = doJSON(t, r, http.MethodGet, "/api/battles/"+battle.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status %d", w.Code)
	}

	var turn struct {
		BattleActive bool            `json:"battle_active"`
		Winner       game.Side       `json:"winner"`
		Rewards      []roster.Reward `json:"rewards"`
	}
	for i := 0; i < 200; i++ {
		w = doJSON(t, r, http.MethodPost, "/api/battles/"+battle.ID+"/turn", "")
		if w.Code != http.StatusOK {
			t.Fatalf("turn %d status %d: %s", i, w.Code, w.Body.String())
		}
		if err := json.Unmarshal(w.Body.Bytes(), &turn); err != nil {
			t.Fatalf("decode turn: %v", err)
		}
		if !turn.BattleActive {
			break
		}
	}
	if turn.BattleActive {
		t.Fatalf("battle never concluded")
	}
	if turn.Winner == game.SideTeam1 && len(turn.Rewards) == 0 {
		t.Fatalf("team1 win produced no rewards")
	}

	w = doJSON(t, r, http.MethodDelete, "/api/battles/"+battle.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("end status %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/battles/"+battle.ID, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("removed battle status %d", w.Code)
	}
}

func TestCancelBattleOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	body := `{
	  "team1": [{"cat_id": "tabby"}],
	  "team2": [{"cat_id": "tuxedo"}],
	  "auto": true
	}`
	w := doJSON(t, r, http.MethodPost, "/api/battles", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status %d", w.Code)
	}
	var battle game.Battle
	if err := json.Unmarshal(w.Body.Bytes(), &battle); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/api/battles/"+battle.ID+"/cancel", "")
	if w.Code != http.StatusOK {
		t.Fatalf("cancel status %d: %s", w.Code, w.Body.String())
	}
	var cancelled game.Battle
	if err := json.Unmarshal(w.Body.Bytes(), &cancelled); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cancelled.Reason != game.ConcludeCancelled {
		t.Fatalf("reason = %s", cancelled.Reason)
	}
}

func TestErrorMapping(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/battles/nope", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("unknown battle status %d", w.Code)
	}
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error != constants.ErrBattleNotFound || body.Details == "" {
		t.Fatalf("error body = %+v", body)
	}

	w = doJSON(t, r, http.MethodPost, "/api/battles", `{"team1": [], "team2": []}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty teams status %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/summons/void", `{"player_id": "p1"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown pool status %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/summons/alley", `{"player_id": ""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing player status %d", w.Code)
	}
}

func TestSummonOverHTTP(t *testing.T) {
	r, repo := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/summons/alley", `{"player_id": "p1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("summon status %d: %s", w.Code, w.Body.String())
	}
	var res roster.Summon
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.CatID == "" {
		t.Fatalf("no cat drawn: %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/players/p1/roster", "")
	if w.Code != http.StatusOK {
		t.Fatalf("roster status %d", w.Code)
	}
	if len(repo.roster) != 1 {
		t.Fatalf("roster size %d", len(repo.roster))
	}
}
