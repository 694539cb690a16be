package systems

import (
	"errors"
	"gridtactics/internal/domain"
	"testing"
)

// destroyRecorder проверяет, что к моменту Destroy сущность уже снята с индекса
type destroyRecorder struct {
	world     *domain.World
	entity    *domain.Entity
	destroyed bool
	wasActive bool
}

func (d *destroyRecorder) Destroy() {
	d.destroyed = true
	d.wasActive = d.entity.IsActive() || d.world.Index.Contains(d.entity.Root, d.entity)
}

func TestApplyDamage(t *testing.T) {
	tests := []struct {
		name      string
		hp        int
		damage    int
		wantHP    int
		wantDied  bool
		wantError error
	}{
		{"Normal Hit", 30, 10, 20, false, nil},
		{"Zero damage", 30, 0, 30, false, nil},
		{"Exact kill", 10, 10, 0, true, nil},
		{"Overkill clamps to zero", 10, 25, 0, true, nil},
		{"Negative damage rejected", 30, -5, 30, false, domain.ErrNegativeDamage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createTestWorld(t, "....")
			goblin := spawn(t, w, 2, domain.EntityTypeEnemy, domain.Position{X: 1}, domain.Footprint{W: 1, H: 1}, tt.hp)

			out, err := ApplyDamage(w, goblin, tt.damage)
			if !errors.Is(err, tt.wantError) {
				t.Fatalf("err = %v, want %v", err, tt.wantError)
			}
			if goblin.Health.HP != tt.wantHP {
				t.Errorf("HP = %d, want %d", goblin.Health.HP, tt.wantHP)
			}
			if out.Died != tt.wantDied {
				t.Errorf("Died = %v, want %v", out.Died, tt.wantDied)
			}
			if tt.wantDied && (w.GetEntity(goblin.ID) != nil || w.Index.IsOccupied(domain.Position{X: 1})) {
				t.Error("dead entity must leave the world")
			}
		})
	}
}

func TestApplyDamage_SkipsNonDamageable(t *testing.T) {
	w := createTestWorld(t, "...")
	npc := spawn(t, w, 3, domain.EntityTypeNPC, domain.Position{}, domain.Footprint{W: 1, H: 1}, 0)

	out, err := ApplyDamage(w, npc, 100)
	if err != nil || out.Applied {
		t.Errorf("NPC must be skipped silently, got %+v, %v", out, err)
	}
	if w.GetEntity(npc.ID) == nil {
		t.Error("NPC was removed")
	}
}

func TestApplyDamage_DeathOrdering(t *testing.T) {
	w := createTestWorld(t, "....", "....")
	boss := spawn(t, w, 7, domain.EntityTypeBoss, domain.Position{X: 1}, domain.Footprint{W: 2, H: 2}, 5)
	rec := &destroyRecorder{world: w, entity: boss}
	boss.Owner = rec

	if _, err := ApplyDamage(w, boss, 5); err != nil {
		t.Fatal(err)
	}
	if !rec.destroyed {
		t.Fatal("Destroy was not called")
	}
	if rec.wasActive {
		t.Error("entity was still indexed when destroyed")
	}
	for _, c := range boss.Occupied {
		if w.Index.Contains(c, boss) {
			t.Errorf("boss still indexed at %v", c)
		}
	}
	if w.Index.CellCount() != 0 {
		t.Errorf("CellCount = %d, want 0", w.Index.CellCount())
	}
}

func TestResolveAttack_BossHitOnce(t *testing.T) {
	w := createTestWorld(t, ".......", ".......", ".......", ".......", ".......", ".......", ".......")
	hero := spawn(t, w, 1, domain.EntityTypePlayer, domain.Position{X: 4, Y: 2}, domain.Footprint{W: 1, H: 1}, 100)
	boss := spawn(t, w, 9, domain.EntityTypeBoss, domain.Position{X: 4, Y: 4}, domain.Footprint{W: 2, H: 2}, 100)

	skill := &domain.AttackSkill{ID: "cleave", Damage: 30, Pattern: domain.RangeSquare3x3.Pattern(0)}
	report, err := ResolveAttack(w, hero, skill)
	if err != nil {
		t.Fatal(err)
	}

	// 3x3 от (3,3) до (5,5) покрывает 4 клетки босса, но урон проходит один раз
	if len(report.Hits) != 1 || report.Hits[0] != boss {
		t.Fatalf("Hits = %v, want [boss]", report.Hits)
	}
	if boss.Health.HP != 70 {
		t.Errorf("boss HP = %d, want 70", boss.Health.HP)
	}
	if hero.Health.HP != 100 {
		t.Error("attacker must not hit itself")
	}
}

func TestResolveAttack_KillsInPatternOrder(t *testing.T) {
	w := createTestWorld(t, ".", ".", ".", ".", ".")
	hero := spawn(t, w, 1, domain.EntityTypePlayer, domain.Position{Y: 0}, domain.Footprint{W: 1, H: 1}, 100)
	far := spawn(t, w, 2, domain.EntityTypeEnemy, domain.Position{Y: 3}, domain.Footprint{W: 1, H: 1}, 5)
	near := spawn(t, w, 3, domain.EntityTypeEnemy, domain.Position{Y: 1}, domain.Footprint{W: 1, H: 1}, 5)

	skill := &domain.AttackSkill{ID: "spear", Damage: 10, Pattern: domain.RangeLine.Pattern(3)}
	report, err := ResolveAttack(w, hero, skill)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Killed) != 2 || report.Killed[0] != near || report.Killed[1] != far {
		t.Errorf("Killed = %v, want [near far]", report.Killed)
	}
	if w.Index.Len() != 1 {
		t.Errorf("only the hero should remain, Len = %d", w.Index.Len())
	}
}

func TestResolveAttack_InvalidSkill(t *testing.T) {
	w := createTestWorld(t, "...")
	hero := spawn(t, w, 1, domain.EntityTypePlayer, domain.Position{}, domain.Footprint{W: 1, H: 1}, 10)

	if _, err := ResolveAttack(w, hero, nil); !errors.Is(err, domain.ErrMissingSkill) {
		t.Errorf("nil skill: err = %v", err)
	}
	if _, err := ResolveAttack(w, hero, &domain.AttackSkill{ID: "bad", Damage: 0}); !errors.Is(err, domain.ErrInvalidSkill) {
		t.Errorf("zero damage: err = %v", err)
	}
}
