package engine

import (
	"encoding/json"
	"gridtactics/internal/domain"
	"gridtactics/pkg/level"
	"gridtactics/pkg/logger"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()
	os.Exit(m.Run())
}

// Стена в (3,2), гоблин в (4,1), смотритель в (1,3)
const arenaYAML = `
name: arena
legend:
  ".": {walkable: true}
  "#": {walkable: false, obstacle: wall}
rows:
  - "########"
  - "#......#"
  - "#..#...#"
  - "#......#"
  - "########"
skills:
  dodge: {kind: movement, cooldown: 1.0, dashDistance: 3, speedMultiplier: 2}
  slash: {kind: attack, cooldown: 0.5, damage: 10, range: single, effect: slash, effectDuration: 0.3}
spawns:
  - {key: hero, type: player, name: Герой, at: {x: 1, y: 1}, hp: 100, dodge: dodge, attack: slash}
  - {key: rookie, type: player, name: Новичок, at: {x: 6, y: 3}, hp: 100}
  - {key: goblin, type: enemy, name: Гоблин, at: {x: 4, y: 1}, hp: 10}
  - {key: keeper, type: npc, name: Смотритель, at: {x: 1, y: 3}}
`

func arenaFile(t *testing.T) *level.File {
	t.Helper()
	f, err := level.Parse([]byte(arenaYAML))
	if err != nil {
		t.Fatalf("Parse arena: %v", err)
	}
	return f
}

// testConfig: 10 тиков в секунду, шаг = 200ms = 2 тика
func testConfig() Config {
	cfg := NewConfig()
	cfg.TickRate = 10
	cfg.MoveSpeed = 5
	cfg.JournalDir = ""
	return cfg
}

func newTestInstance(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewInstance(testConfig(), arenaFile(t), nil)
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	return inst
}

func command(action domain.ActionType, token string, payload any) domain.InternalCommand {
	raw := json.RawMessage{}
	if payload != nil {
		raw, _ = json.Marshal(payload)
	}
	return domain.InternalCommand{Action: action, Token: token, Payload: raw}
}

func mustEntity(t *testing.T, inst *Instance, key string) *domain.Entity {
	t.Helper()
	e := inst.World.GetByKey(key)
	if e == nil {
		t.Fatalf("entity %q not found", key)
	}
	return e
}
