package engine

import (
	"fmt"
	"gridtactics/internal/domain"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config хранит параметры запуска движка
type Config struct {
	Port         string  `yaml:"port"`
	TickRate     int     `yaml:"tickRate"`  // тиков симуляции в секунду
	MoveSpeed    float64 `yaml:"moveSpeed"` // клеток в секунду для обычного шага
	LevelPath    string  `yaml:"level"`     // пусто = встроенный уровень
	Zone         uint16  `yaml:"zone"`
	PoolCapacity int     `yaml:"poolCapacity"`
	JournalDir   string  `yaml:"journalDir"` // пусто = журнал не сохраняется
	CommandQueue int     `yaml:"commandQueue"`
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		Port:         "8080",
		TickRate:     domain.DefaultTickRate,
		MoveSpeed:    domain.DefaultMoveSpeed,
		Zone:         1,
		PoolCapacity: domain.DefaultEffectPoolCapacity,
		JournalDir:   "journals",
		CommandQueue: 100,
	}
}

// LoadConfig накладывает YAML-файл поверх значений по умолчанию.
// Поля, которых нет в файле, остаются как в NewConfig.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config YAML from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate проверяет значения, от которых зависит детерминизм симуляции
func (c Config) Validate() error {
	if c.TickRate < 1 || c.TickRate > 1000 {
		return fmt.Errorf("tickRate must be in [1, 1000], got %d", c.TickRate)
	}
	if c.MoveSpeed <= 0 {
		return fmt.Errorf("moveSpeed must be > 0, got %v", c.MoveSpeed)
	}
	if c.PoolCapacity < 1 {
		return fmt.Errorf("poolCapacity must be >= 1, got %d", c.PoolCapacity)
	}
	return nil
}

// TickDuration - длительность одного тика симуляции
func (c Config) TickDuration() time.Duration {
	rate := c.TickRate
	if rate < 1 {
		rate = domain.DefaultTickRate
	}
	return time.Second / time.Duration(rate)
}
