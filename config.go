package gamebase

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is returned when a tuning file holds values the pool or
// quadtree cannot be built from.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds tuning values for the spatial index and entity pools,
// typically loaded from a TOML file shipped with the game.
//
//	[quadtree]
//	max_levels = 6
//	max_objects = 8
//	bounds = { x = 0, y = 0, width = 1920, height = 1080 }
//
//	[pool]
//	initial_size = 256
//	can_resize = false
type Config struct {
	Quadtree QuadtreeConfig `toml:"quadtree"`
	Pool     PoolConfig     `toml:"pool"`
}

// QuadtreeConfig configures a root quadtree.
type QuadtreeConfig struct {
	// Bounds is the world region covered by the root node.
	Bounds Rect `toml:"bounds"`
	// MaxLevels is the deepest level a node may split to.
	MaxLevels int `toml:"max_levels"`
	// MaxObjects is the entry count above which a node splits.
	MaxObjects int `toml:"max_objects"`
}

// PoolConfig configures an entity pool.
type PoolConfig struct {
	// InitialSize is the number of slots created up front.
	InitialSize int `toml:"initial_size"`
	// CanResize lets New grow the pool instead of returning nothing when full.
	CanResize bool `toml:"can_resize"`
}

// DefaultConfig returns the values used for any key a tuning file omits.
func DefaultConfig() *Config {
	return &Config{
		Quadtree: QuadtreeConfig{
			Bounds:     Rect{0, 0, 1280, 720},
			MaxLevels:  DefaultMaxLevels,
			MaxObjects: DefaultMaxObjects,
		},
		Pool: PoolConfig{
			InitialSize: 64,
			CanResize:   true,
		},
	}
}

// LoadConfig parses TOML tuning data over DefaultConfig and validates it.
func LoadConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("gamebase: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a TOML tuning file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gamebase: read config %s: %w", path, err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first value that would make construction fail.
func (c *Config) Validate() error {
	q := c.Quadtree
	if !(q.Bounds.Width > 0 && q.Bounds.Height > 0) {
		return fmt.Errorf("gamebase: %w: quadtree.bounds %vx%v must be positive", ErrInvalidConfig, q.Bounds.Width, q.Bounds.Height)
	}
	if q.MaxLevels < 0 {
		return fmt.Errorf("gamebase: %w: quadtree.max_levels %d is negative", ErrInvalidConfig, q.MaxLevels)
	}
	if q.MaxObjects < 1 {
		return fmt.Errorf("gamebase: %w: quadtree.max_objects %d must be at least 1", ErrInvalidConfig, q.MaxObjects)
	}
	if c.Pool.InitialSize < 1 {
		return fmt.Errorf("gamebase: %w: pool.initial_size %d must be at least 1", ErrInvalidConfig, c.Pool.InitialSize)
	}
	return nil
}

// NewQuadtreeFromConfig builds an initialized root quadtree.
func NewQuadtreeFromConfig[E Bounded](cfg QuadtreeConfig) (*Quadtree[E], error) {
	q, err := NewQuadtree[E](0, cfg.Bounds)
	if err != nil {
		return nil, err
	}
	q.Initialize(cfg.MaxLevels, cfg.MaxObjects)
	return q, nil
}

// NewPoolFromConfig builds a pool sized by cfg.
func NewPoolFromConfig[T any](cfg PoolConfig, validate func(*T) bool, allocate func() *T) (*Pool[T], error) {
	return NewPool(cfg.InitialSize, cfg.CanResize, validate, allocate)
}
