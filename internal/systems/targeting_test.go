package systems

import (
	"gridtactics/internal/domain"
	"testing"
)

var cardinals = []domain.Direction{domain.DirUp, domain.DirRight, domain.DirDown, domain.DirLeft}

func TestRotatePattern(t *testing.T) {
	rel := domain.Position{X: 1, Y: 2}
	tests := []struct {
		facing domain.Direction
		want   domain.Position
	}{
		{domain.DirUp, domain.Position{X: 1, Y: 2}},
		{domain.DirDown, domain.Position{X: -1, Y: -2}},
		{domain.DirRight, domain.Position{X: -2, Y: 1}},
		{domain.DirLeft, domain.Position{X: 2, Y: -1}},
		{domain.Direction{X: 1, Y: 1}, domain.Position{X: 1, Y: 2}}, // неканоническое - без поворота
	}
	for _, tt := range tests {
		if got := RotatePattern(rel, tt.facing); got != tt.want {
			t.Errorf("RotatePattern(%v, %v) = %v, want %v", rel, tt.facing, got, tt.want)
		}
	}
}

func TestRotatePattern_Properties(t *testing.T) {
	for x := -3; x <= 3; x++ {
		for y := -3; y <= 3; y++ {
			p := domain.Position{X: x, Y: y}

			// down∘down = identity
			if got := RotatePattern(RotatePattern(p, domain.DirDown), domain.DirDown); got != p {
				t.Errorf("down twice: %v -> %v", p, got)
			}
			// left и right взаимно обратны
			if got := RotatePattern(RotatePattern(p, domain.DirRight), domain.DirLeft); got != p {
				t.Errorf("right then left: %v -> %v", p, got)
			}
			// Поворот сохраняет расстояние до якоря
			for _, d := range cardinals {
				r := RotatePattern(p, d)
				if r.DistanceSquaredTo(domain.Position{}) != p.DistanceSquaredTo(domain.Position{}) {
					t.Errorf("rotation %v changed length of %v", d, p)
				}
			}
		}
	}

	// Для вертикальных направлений "прямо вперед" совпадает со взглядом,
	// для горизонтальных формула (-y, x) / (y, -x) дает зеркальную ось
	forward := domain.Position{X: 0, Y: 1}
	if got := RotatePattern(forward, domain.DirDown); got != domain.DirDown {
		t.Errorf("forward rotated down to %v", got)
	}
	if got := RotatePattern(forward, domain.DirRight); got != domain.DirLeft {
		t.Errorf("forward rotated right to %v, want %v", got, domain.DirLeft)
	}
}

func TestComputeTargetCells(t *testing.T) {
	anchor := domain.Position{X: 5, Y: 5}

	t.Run("empty pattern hits the cell in front", func(t *testing.T) {
		for _, d := range cardinals {
			cells := ComputeTargetCells(anchor, d, nil)
			if len(cells) != 1 || cells[0] != anchor.Add(d) {
				t.Errorf("facing %v: got %v", d, cells)
			}
		}
	})

	t.Run("pattern order is kept", func(t *testing.T) {
		pattern := domain.RangeLine.Pattern(3)
		cells := ComputeTargetCells(anchor, domain.DirRight, pattern)
		want := []domain.Position{{X: 4, Y: 5}, {X: 3, Y: 5}, {X: 2, Y: 5}}
		if len(cells) != len(want) {
			t.Fatalf("got %v, want %v", cells, want)
		}
		for i := range want {
			if cells[i] != want[i] {
				t.Errorf("cells[%d] = %v, want %v", i, cells[i], want[i])
			}
		}
	})
}

func TestFilterDamageable(t *testing.T) {
	player := domain.NewSingleCellEntity(1, domain.EntityTypePlayer, domain.Position{})
	npc := domain.NewSingleCellEntity(2, domain.EntityTypeNPC, domain.Position{})
	enemy := domain.NewSingleCellEntity(3, domain.EntityTypeEnemy, domain.Position{})
	enemy.Health = domain.NewHealth(5)
	dead := domain.NewSingleCellEntity(4, domain.EntityTypeEnemy, domain.Position{})
	dead.Health = &domain.HealthComponent{IsDead: true}
	boss := domain.NewSingleCellEntity(5, domain.EntityTypeBoss, domain.Position{})
	boss.Health = domain.NewHealth(50)

	got := FilterDamageable([]*domain.Entity{player, npc, enemy, dead, boss})
	if len(got) != 2 || got[0] != enemy || got[1] != boss {
		t.Errorf("FilterDamageable = %v, want [enemy boss]", got)
	}
}
