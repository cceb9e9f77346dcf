package game

import "testing"

func testCat() *Cat {
	return &Cat{
		ID:             "cat_whiskers",
		Name:           "Whiskers",
		Level:          1,
		EvolutionStage: 1,
		Happiness:      50,
		BaseStats:      Stats{HP: 100, Attack: 20, Defense: 10, Speed: 15, CritRate: 0.1, CritDamage: 1.5},
		GrowthRates:    GrowthRates{HP: 8, Attack: 5, Defense: 4, Speed: 3},
	}
}

func TestCalculateCurrentStats_Idempotent(t *testing.T) {
	c := testCat()
	CalculateCurrentStats(c)
	first := c.CurrentStats
	CalculateCurrentStats(c)
	if c.CurrentStats != first {
		t.Fatalf("expected identical stats on recompute, got %+v then %+v", first, c.CurrentStats)
	}
}

func TestCalculateCurrentStats_LevelAndEvolution(t *testing.T) {
	c := testCat()
	c.Level = 11
	c.EvolutionStage = 2
	c.Happiness = 0
	CalculateCurrentStats(c)

	// hp: 100 + floor(100*8*10/100) + 100*0.2 = 100 + 80 + 20 = 200
	if c.CurrentStats.HP != 200 {
		t.Fatalf("expected HP=200, got %d", c.CurrentStats.HP)
	}
	// attack: 20 + floor(20*5*10/100) + 20*0.2 = 20 + 10 + 4 = 34
	if c.CurrentStats.Attack != 34 {
		t.Fatalf("expected Attack=34, got %d", c.CurrentStats.Attack)
	}
}

func TestCalculateCurrentStats_EquipmentCaps(t *testing.T) {
	c := testCat()
	c.Happiness = 0
	c.EquipmentBoosts = map[string]int{"attack": 100, "hp": 100}
	CalculateCurrentStats(c)

	if c.CurrentStats.Attack != 20+25 {
		t.Fatalf("attack boost not capped at 25: got %d", c.CurrentStats.Attack)
	}
	if c.CurrentStats.HP != 100+40 {
		t.Fatalf("hp boost not capped at 40: got %d", c.CurrentStats.HP)
	}
}

func TestCalculateCurrentStats_ClampsCurrentHP(t *testing.T) {
	c := testCat()
	CalculateCurrentStats(c)
	c.CurrentHP = c.CurrentStats.HP + 50
	CalculateCurrentStats(c)
	if c.CurrentHP != c.CurrentStats.HP {
		t.Fatalf("expected CurrentHP clamped to %d, got %d", c.CurrentStats.HP, c.CurrentHP)
	}
}

func TestGainExp_LevelCurve(t *testing.T) {
	c := testCat()
	CalculateCurrentStats(c)

	res := GainExp(c, 99)
	if res.LeveledUp {
		t.Fatalf("99 exp should not level up from 1 (threshold 100)")
	}

	res = GainExp(c, 1)
	if !res.LeveledUp || res.NewLevel != 2 {
		t.Fatalf("expected level 2, got %+v", res)
	}

	// Thresholds are strictly increasing.
	prev := 0
	for lvl := 1; lvl <= 30; lvl++ {
		need := XPForLevel(lvl)
		if need <= prev {
			t.Fatalf("threshold not strictly increasing at level %d: %d <= %d", lvl, need, prev)
		}
		prev = need
	}
}

func TestGainExp_NeverDecreasesLevel(t *testing.T) {
	c := testCat()
	c.Level = 5
	res := GainExp(c, 0)
	if res.NewLevel != 5 || c.Level != 5 {
		t.Fatalf("level changed on zero exp: %+v", res)
	}
	GainExp(c, -10)
	if c.Level != 5 {
		t.Fatalf("negative exp changed level to %d", c.Level)
	}
}

func TestEvolution(t *testing.T) {
	c := testCat()
	c.Level = 19
	if CanEvolve(c, []string{"moon_crystal"}, map[string]int{"moon_crystal": 1}) {
		t.Fatalf("level 19 cat should not evolve")
	}
	c.Level = 20
	if CanEvolve(c, []string{"moon_crystal"}, map[string]int{}) {
		t.Fatalf("evolution requires the listed items")
	}
	if !CanEvolve(c, []string{"moon_crystal"}, map[string]int{"moon_crystal": 1}) {
		t.Fatalf("expected evolution to be allowed")
	}
	CalculateCurrentStats(c)
	before := c.CurrentStats.HP
	Evolve(c)
	if c.EvolutionStage != 2 {
		t.Fatalf("expected stage 2, got %d", c.EvolutionStage)
	}
	if c.CurrentStats.HP <= before {
		t.Fatalf("evolution should raise max HP: %d -> %d", before, c.CurrentStats.HP)
	}
}
