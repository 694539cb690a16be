package level

import (
	"embed"
	"fmt"
	"gridtactics/internal/domain"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed levels/*.yaml
var builtin embed.FS

// DefaultLevel - имя встроенного уровня
const DefaultLevel = "training"

// File - описание уровня в YAML
type File struct {
	Name     string                           `yaml:"name"`
	CellSize float64                          `yaml:"cellSize"`
	Origin   Origin                           `yaml:"origin"`
	Legend   map[string]domain.TileAttributes `yaml:"legend"`
	Rows     []string                         `yaml:"rows"` // верхняя строка первой
	Skills   map[string]SkillSpec             `yaml:"skills"`
	Spawns   []SpawnSpec                      `yaml:"spawns"`

	grid [][]rune
}

// Origin - мировые координаты угла клетки (0,0)
type Origin struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// SkillSpec - навык в файле уровня. Время в секундах.
type SkillSpec struct {
	Kind     string  `yaml:"kind"` // movement | attack
	Name     string  `yaml:"name"`
	Cooldown float64 `yaml:"cooldown"`

	// movement
	DashDistance    int     `yaml:"dashDistance"`
	SpeedMultiplier float64 `yaml:"speedMultiplier"`
	PassWall        bool    `yaml:"passWall"`
	PassOccupant    bool    `yaml:"passOccupant"`
	PassCliff       bool    `yaml:"passCliff"`

	// attack
	Damage         int               `yaml:"damage"`
	Range          string            `yaml:"range"`   // single, cross, square3x3, line
	Length         int               `yaml:"length"`  // для line
	Pattern        []domain.Position `yaml:"pattern"` // явный шаблон важнее range
	Effect         string            `yaml:"effect"`
	EffectDuration float64           `yaml:"effectDuration"`
}

// SpawnSpec - сущность, создаваемая при старте уровня
type SpawnSpec struct {
	Key    string           `yaml:"key"`
	Type   string           `yaml:"type"`
	Name   string           `yaml:"name"`
	At     domain.Position  `yaml:"at"`
	Size   domain.Footprint `yaml:"size"`
	HP     int              `yaml:"hp"`
	Dodge  string           `yaml:"dodge"`
	Attack string           `yaml:"attack"`
	Facing string           `yaml:"facing"`
}

// Parse разбирает YAML, применяет значения по умолчанию и проверяет файл
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse level YAML: %w", err)
	}
	applyDefaults(&f)
	if err := validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile читает уровень с диска
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadBuiltin читает встроенный уровень по имени (без расширения)
func LoadBuiltin(name string) (*File, error) {
	data, err := builtin.ReadFile("levels/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown builtin level %q: %w", name, err)
	}
	return Parse(data)
}

// Load: путь к файлу, а если пусто - встроенный уровень по умолчанию
func Load(path string) (*File, error) {
	if path == "" {
		return LoadBuiltin(DefaultLevel)
	}
	return LoadFile(path)
}

func applyDefaults(f *File) {
	if f.CellSize <= 0 {
		f.CellSize = 1
	}
	for id, attrs := range f.Legend {
		if attrs.MoveCost == 0 {
			attrs.MoveCost = 1
		}
		if attrs.Name == "" {
			attrs.Name = id
		}
		f.Legend[id] = attrs
	}
	for i := range f.Spawns {
		s := &f.Spawns[i]
		if s.Size.W < 1 {
			s.Size.W = 1
		}
		if s.Size.H < 1 {
			s.Size.H = 1
		}
		if s.Name == "" {
			s.Name = s.Key
		}
	}

	f.grid = make([][]rune, len(f.Rows))
	for i, row := range f.Rows {
		f.grid[i] = []rune(row)
	}
}

func validate(f *File) error {
	if len(f.Rows) == 0 {
		return fmt.Errorf("level %q has no rows", f.Name)
	}
	for id := range f.Legend {
		if utf8.RuneCountInString(id) != 1 {
			return fmt.Errorf("legend key %q must be a single character", id)
		}
	}
	keys := make(map[string]bool, len(f.Spawns))
	for i, s := range f.Spawns {
		if s.Key == "" {
			return fmt.Errorf("spawn #%d has no key", i)
		}
		if keys[s.Key] {
			return fmt.Errorf("duplicate spawn key %q", s.Key)
		}
		keys[s.Key] = true
		if _, err := domain.ParseEntityType(s.Type); err != nil {
			return fmt.Errorf("spawn %q: %w", s.Key, err)
		}
		for _, ref := range []string{s.Dodge, s.Attack} {
			if ref == "" {
				continue
			}
			if _, ok := f.Skills[ref]; !ok {
				return fmt.Errorf("spawn %q: %w: %q", s.Key, domain.ErrMissingSkill, ref)
			}
		}
		if s.Facing != "" {
			if _, err := domain.ParseDirection(s.Facing); err != nil {
				return fmt.Errorf("spawn %q: %w", s.Key, err)
			}
		}
	}
	return nil
}

// Width - ширина самой длинной строки
func (f *File) Width() int {
	w := 0
	for _, row := range f.grid {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Height - число строк
func (f *File) Height() int {
	return len(f.grid)
}

// Bounds реализует domain.TileSource
func (f *File) Bounds() domain.Rect {
	return domain.Rect{
		Min: domain.Position{X: 0, Y: 0},
		Max: domain.Position{X: f.Width() - 1, Y: f.Height() - 1},
	}
}

// RawTileAt реализует domain.TileSource. Строки короче ширины уровня
// дополняются пустотой.
func (f *File) RawTileAt(p domain.Position) (string, bool) {
	row := len(f.grid) - 1 - p.Y
	if row < 0 || row >= len(f.grid) || p.X < 0 || p.X >= len(f.grid[row]) {
		return "", false
	}
	ch := f.grid[row][p.X]
	if ch == ' ' {
		return "", false
	}
	return string(ch), true
}

// Layout - раскладка сетки в мировых координатах
func (f *File) Layout() domain.GridLayout {
	return domain.NewGridLayout(f.CellSize, f.Origin.X, f.Origin.Y)
}

// String - короткое описание для логов
func (f *File) String() string {
	return fmt.Sprintf("%s (%dx%d, %d spawns)", f.Name, f.Width(), f.Height(), len(f.Spawns))
}

func normalizeKind(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
