package config

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/tinybot-ca/cosy-restaurant/internal/engine"
	"github.com/tinybot-ca/cosy-restaurant/internal/motion"
	"github.com/tinybot-ca/cosy-restaurant/internal/quiz"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the application configuration.
type Config struct {
	Seed    int64   `yaml:"seed"` // 0 picks a random seed
	FPS     int     `yaml:"fps"`
	Catalog string  `yaml:"catalog"` // empty uses the built-in catalog
	Log     Log     `yaml:"log"`
	Floor   Rect    `yaml:"floor"`
	Agents  []Agent `yaml:"agents"`
	Motion  Motion  `yaml:"motion"`
	Kitchen Kitchen `yaml:"kitchen"`
	Quiz    Quiz    `yaml:"quiz"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
	File   string `yaml:"file"`
}

type Rect struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Agent is a character and where it appears on the floor.
type Agent struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

type DurationRange struct {
	Min string `yaml:"min"`
	Max string `yaml:"max"`
}

type Motion struct {
	WalkSpeed        float64       `yaml:"walk_speed"`
	ArrivalThreshold float64       `yaml:"arrival_threshold"`
	Inset            float64       `yaml:"inset"`
	FirstIdle        DurationRange `yaml:"first_idle"`
	Idle             DurationRange `yaml:"idle"`
	Bob              Bob           `yaml:"bob"`
}

type Bob struct {
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Squash    float64 `yaml:"squash"`
	Stretch   float64 `yaml:"stretch"`
}

type Kitchen struct {
	Order        string `yaml:"order"` // recipe id; empty picks one at random
	RetryDelay   string `yaml:"retry_delay"`
	SuccessDelay string `yaml:"success_delay"`
}

type Quiz struct {
	Enabled          bool   `yaml:"enabled"`
	Questions        int    `yaml:"questions"`
	MinOperand       int    `yaml:"min_operand"`
	MaxOperand       int    `yaml:"max_operand"`
	MaxWrongAttempts int    `yaml:"max_wrong_attempts"`
	RevealDelay      string `yaml:"reveal_delay"`
	FiveStarAverage  string `yaml:"five_star_average"`
	FourStarAverage  string `yaml:"four_star_average"`
}

// Overrides are read from the environment and win over the file.
type Overrides struct {
	Seed      int64  `env:"CAFE_SEED"`
	FPS       int    `env:"CAFE_FPS"`
	Catalog   string `env:"CAFE_CATALOG"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
	LogFile   string `env:"CAFE_LOG_FILE"`
}

// Default returns the café as it ships.
func Default() Config {
	return Config{
		FPS:   60,
		Log:   Log{Level: "info", Format: "text"},
		Floor: Rect{X: 200, Y: 400, Width: 880, Height: 250},
		Agents: []Agent{
			{Name: "bear", X: 900, Y: 480},
			{Name: "bunny", X: 400, Y: 500},
		},
		Motion: Motion{
			WalkSpeed:        50,
			ArrivalThreshold: 5,
			Inset:            60,
			FirstIdle:        DurationRange{Min: "1s", Max: "3s"},
			Idle:             DurationRange{Min: "2s", Max: "4s"},
			Bob:              Bob{Amplitude: 2, Frequency: 0.02, Squash: 0.03, Stretch: 0.02},
		},
		Kitchen: Kitchen{
			Order:        "galbi-dinner",
			RetryDelay:   "1500ms",
			SuccessDelay: "2s",
		},
		Quiz: Quiz{
			Enabled:          true,
			Questions:        3,
			MinOperand:       1,
			MaxOperand:       12,
			MaxWrongAttempts: 3,
			RevealDelay:      "2s",
			FiveStarAverage:  "3s",
			FourStarAverage:  "5s",
		},
	}
}

// Load reads YAML config from path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays the variables listed on Overrides.
func (c *Config) ApplyEnv() error {
	var o Overrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.FPS != 0 {
		c.FPS = o.FPS
	}
	if o.Catalog != "" {
		c.Catalog = o.Catalog
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Log.Format = o.LogFormat
	}
	if o.LogFile != "" {
		c.Log.File = o.LogFile
	}
	return nil
}

// Validate rejects settings the engines cannot run with.
func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	}
	_, err := c.Settings()
	return err
}

// ResolveSeed returns the configured seed, or a fresh one from crypto/rand
// when it is zero.
func (c Config) ResolveSeed() (int64, error) {
	if c.Seed != 0 {
		return c.Seed, nil
	}
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// FrameInterval is the time between simulation ticks.
func (c Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FPS)
}

// Settings converts the file representation into engine settings.
func (c Config) Settings() (engine.Settings, error) {
	params, err := c.motionParams()
	if err != nil {
		return engine.Settings{}, err
	}
	floor := motion.Rect{X: c.Floor.X, Y: c.Floor.Y, Width: c.Floor.Width, Height: c.Floor.Height}
	if err := motion.CheckArea(floor, params.Inset); err != nil {
		return engine.Settings{}, fmt.Errorf("%w: floor: %w", ErrInvalidConfig, err)
	}

	spawns := make([]engine.Spawn, 0, len(c.Agents))
	for _, a := range c.Agents {
		if a.Name == "" {
			return engine.Settings{}, fmt.Errorf("%w: agent without a name", ErrInvalidConfig)
		}
		spawns = append(spawns, engine.Spawn{Name: a.Name, At: motion.Point{X: a.X, Y: a.Y}})
	}

	retry, err := duration("kitchen.retry_delay", c.Kitchen.RetryDelay)
	if err != nil {
		return engine.Settings{}, err
	}
	success, err := duration("kitchen.success_delay", c.Kitchen.SuccessDelay)
	if err != nil {
		return engine.Settings{}, err
	}

	qc, err := c.quizConfig()
	if err != nil {
		return engine.Settings{}, err
	}

	return engine.Settings{
		Floor:        floor,
		Spawns:       spawns,
		Motion:       params,
		Order:        c.Kitchen.Order,
		RetryDelay:   retry,
		SuccessDelay: success,
		QuizEnabled:  c.Quiz.Enabled,
		Quiz:         qc,
	}, nil
}

func (c Config) motionParams() (motion.Params, error) {
	firstIdle, err := msRange("motion.first_idle", c.Motion.FirstIdle)
	if err != nil {
		return motion.Params{}, err
	}
	idle, err := msRange("motion.idle", c.Motion.Idle)
	if err != nil {
		return motion.Params{}, err
	}
	p := motion.Params{
		WalkSpeed:        c.Motion.WalkSpeed,
		ArrivalThreshold: c.Motion.ArrivalThreshold,
		Inset:            c.Motion.Inset,
		FirstIdle:        firstIdle,
		Idle:             idle,
		Bob: motion.BobParams{
			Amplitude: c.Motion.Bob.Amplitude,
			Frequency: c.Motion.Bob.Frequency,
			Squash:    c.Motion.Bob.Squash,
			Stretch:   c.Motion.Bob.Stretch,
		},
	}
	if err := p.Validate(); err != nil {
		return motion.Params{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return p, nil
}

func (c Config) quizConfig() (quiz.Config, error) {
	reveal, err := duration("quiz.reveal_delay", c.Quiz.RevealDelay)
	if err != nil {
		return quiz.Config{}, err
	}
	five, err := duration("quiz.five_star_average", c.Quiz.FiveStarAverage)
	if err != nil {
		return quiz.Config{}, err
	}
	four, err := duration("quiz.four_star_average", c.Quiz.FourStarAverage)
	if err != nil {
		return quiz.Config{}, err
	}
	qc := quiz.Config{
		QuestionCount:    c.Quiz.Questions,
		MinOperand:       c.Quiz.MinOperand,
		MaxOperand:       c.Quiz.MaxOperand,
		MaxWrongAttempts: c.Quiz.MaxWrongAttempts,
		RevealDelay:      reveal,
		Thresholds:       quiz.Thresholds{FiveStar: five, FourStar: four},
	}
	if c.Quiz.Enabled {
		if err := qc.Validate(); err != nil {
			return quiz.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return qc, nil
}

func duration(field, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidConfig, field)
	}
	return d, nil
}

func msRange(field string, r DurationRange) (motion.Range, error) {
	lo, err := duration(field+".min", r.Min)
	if err != nil {
		return motion.Range{}, err
	}
	hi, err := duration(field+".max", r.Max)
	if err != nil {
		return motion.Range{}, err
	}
	return motion.Range{Min: float64(lo.Milliseconds()), Max: float64(hi.Milliseconds())}, nil
}
