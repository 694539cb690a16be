package level

import (
	"fmt"
	"gridtactics/internal/domain"
	"gridtactics/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Level - собранный уровень: карта, навыки и заготовки сущностей
type Level struct {
	File   *File
	Tiles  *domain.TileMap
	Skills SkillBook
}

// Build собирает карту клеток и навыки. Сущности не создаются.
func (f *File) Build() (*Level, error) {
	tiles, err := domain.BuildTileMap(f, f.Legend)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", f.Name, err)
	}
	skills, err := f.BuildSkills()
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", f.Name, err)
	}
	return &Level{File: f, Tiles: tiles, Skills: skills}, nil
}

// NewWorld создает мир уровня и расставляет все сущности из spawns.
// ID выдаются в порядке файла внутри зоны zone.
func (l *Level) NewWorld(zone uint16) (*domain.World, error) {
	world, err := domain.NewWorld(l.File.Name, l.Tiles, l.File.Layout())
	if err != nil {
		return nil, err
	}

	ids := domain.NewIDAllocator(zone)
	for _, spec := range l.File.Spawns {
		e, err := l.SpawnEntity(spec, ids)
		if err != nil {
			return nil, err
		}
		if err := world.Spawn(e); err != nil {
			return nil, fmt.Errorf("spawn %q: %w", spec.Key, err)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"component":  "level_builder",
		"level_name": l.File.Name,
		"entities":   world.Index.Len(),
		"cells":      world.Index.CellCount(),
	}).Info("World populated")
	return world, nil
}

// SpawnEntity создает сущность по заготовке (без регистрации в мире)
func (l *Level) SpawnEntity(spec SpawnSpec, ids *domain.IDAllocator) (*domain.Entity, error) {
	typ, err := domain.ParseEntityType(spec.Type)
	if err != nil {
		return nil, fmt.Errorf("spawn %q: %w", spec.Key, err)
	}

	e := domain.NewEntity(ids.Next(typ), typ, spec.At, spec.Size)
	e.Key = spec.Key
	e.Name = spec.Name

	if spec.Facing != "" {
		facing, err := domain.ParseDirection(spec.Facing)
		if err != nil {
			return nil, fmt.Errorf("spawn %q: %w", spec.Key, err)
		}
		e.Facing = facing
	}

	if e.Has(domain.CapDamageable) {
		hp := spec.HP
		if hp < 1 {
			hp = 1
		}
		e.Health = domain.NewHealth(hp)
	}

	if spec.Dodge != "" || spec.Attack != "" {
		e.Skills = &domain.SkillSet{}
		if spec.Dodge != "" {
			skill, ok := l.Skills.Movement[spec.Dodge]
			if !ok {
				return nil, fmt.Errorf("spawn %q: %w: movement %q", spec.Key, domain.ErrMissingSkill, spec.Dodge)
			}
			e.Skills.Dodge = skill
		}
		if spec.Attack != "" {
			skill, ok := l.Skills.Attack[spec.Attack]
			if !ok {
				return nil, fmt.Errorf("spawn %q: %w: attack %q", spec.Key, domain.ErrMissingSkill, spec.Attack)
			}
			e.Skills.Attack = skill
		}
	}

	return e, nil
}
