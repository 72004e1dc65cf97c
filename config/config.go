// Package config holds every tunable of the game. Nothing here changes which
// cards exist or how plays resolve; it only paces and places them.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/joecammo/Daemon/affinity"
	"github.com/joecammo/Daemon/geom"
	"github.com/joecammo/Daemon/hand"
	"github.com/joecammo/Daemon/source"
)

type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Seed      int64           `yaml:"seed"`
	Layout    LayoutConfig    `yaml:"layout"`
	Animation AnimationConfig `yaml:"animation"`
	Rules     RulesConfig     `yaml:"rules"`
	Feeds     FeedsConfig     `yaml:"feeds"`
	Server    ServerConfig    `yaml:"server"`
	Window    WindowConfig    `yaml:"window"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) Vec() geom.Vec { return geom.V(p.X, p.Y) }

type LayoutConfig struct {
	Mode           string  `yaml:"mode"`
	FanAngle       float64 `yaml:"fan_angle"`
	FanRadius      float64 `yaml:"fan_radius"`
	Spacing        float64 `yaml:"spacing"`
	MinSpacing     float64 `yaml:"min_spacing"`
	CardWidth      float64 `yaml:"card_width"`
	CardHeight     float64 `yaml:"card_height"`
	ContainerWidth float64 `yaml:"container_width"`
	Center         Point   `yaml:"center"`
	DealFrom       Point   `yaml:"deal_from"`
}

type AnimationConfig struct {
	Rate         float64 `yaml:"rate"`
	DealDelay    float64 `yaml:"deal_delay"`
	PopScale     float64 `yaml:"pop_scale"`
	PopOffset    float64 `yaml:"pop_offset"`
	PosTolerance float64 `yaml:"pos_tolerance"`
	RotTolerance float64 `yaml:"rot_tolerance"`
	Watchdog     float64 `yaml:"watchdog"`
}

type RulesConfig struct {
	MaxHand         int    `yaml:"max_hand"`
	InitialHand     int    `yaml:"initial_hand"`
	MaxEnergy       int    `yaml:"max_energy"`
	DefaultAffinity string `yaml:"default_affinity"`
}

type FeedsConfig struct {
	Sheet   string `yaml:"sheet"`
	Dir     string `yaml:"dir"`
	Cache   string `yaml:"cache"`
	Offline bool   `yaml:"offline"`
	Timeout int    `yaml:"timeout_seconds"`
	// URLs overrides single feed URLs by feed name.
	URLs map[string]string `yaml:"urls"`
}

type ServerConfig struct {
	Addr     string  `yaml:"addr"`
	TickRate float64 `yaml:"tick_rate"`
}

type WindowConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

func Default() *Config {
	o := hand.DefaultOptions()
	return &Config{
		LogLevel: "info",
		Layout: LayoutConfig{
			Mode:           o.Mode.String(),
			FanAngle:       o.FanAngle,
			FanRadius:      o.FanRadius,
			Spacing:        o.Spacing,
			MinSpacing:     o.MinSpacing,
			CardWidth:      o.CardWidth,
			CardHeight:     o.CardHeight,
			ContainerWidth: o.ContainerWidth,
			Center:         Point{o.Center.X, o.Center.Y},
			DealFrom:       Point{o.DealFrom.X, o.DealFrom.Y},
		},
		Animation: AnimationConfig{
			Rate:         o.Rate,
			DealDelay:    o.DealDelay,
			PopScale:     o.PopScale,
			PopOffset:    o.PopOffset,
			PosTolerance: o.PosTolerance,
			RotTolerance: o.RotTolerance,
			Watchdog:     o.Watchdog,
		},
		Rules: RulesConfig{
			MaxHand:         7,
			InitialHand:     5,
			MaxEnergy:       6,
			DefaultAffinity: affinity.Blue.String(),
		},
		Feeds: FeedsConfig{
			Sheet:   source.DefaultSheet,
			Cache:   "daemon_feeds.db",
			Timeout: 10,
		},
		Server: ServerConfig{Addr: ":8080", TickRate: 60},
		Window: WindowConfig{Width: 960, Height: 640, Scale: 60},
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// .env and DAEMON_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("DAEMON_LOG_LEVEL", &c.LogLevel)
	str("DAEMON_SHEET", &c.Feeds.Sheet)
	str("DAEMON_FEED_DIR", &c.Feeds.Dir)
	str("DAEMON_CACHE", &c.Feeds.Cache)
	str("DAEMON_ADDR", &c.Server.Addr)
	str("DAEMON_LAYOUT", &c.Layout.Mode)
	for _, f := range source.Feeds {
		key := "DAEMON_" + strings.ToUpper(string(f)) + "_URL"
		if v := getenv(key); v != "" {
			if c.Feeds.URLs == nil {
				c.Feeds.URLs = map[string]string{}
			}
			c.Feeds.URLs[string(f)] = v
		}
	}
	if v := getenv("DAEMON_OFFLINE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DAEMON_OFFLINE: %w", err)
		}
		c.Feeds.Offline = b
	}
	if v := getenv("DAEMON_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("DAEMON_SEED: %w", err)
		}
		c.Seed = n
	}
	return nil
}

// Validate rejects settings no game can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Rules.MaxHand <= 0 {
		errs = append(errs, errors.New("rules.max_hand must be positive"))
	}
	if c.Rules.InitialHand < 0 || c.Rules.InitialHand > c.Rules.MaxHand {
		errs = append(errs, errors.New("rules.initial_hand must be within [0, max_hand]"))
	}
	if c.Rules.MaxEnergy <= 0 {
		errs = append(errs, errors.New("rules.max_energy must be positive"))
	}
	if _, ok := affinity.Parse(c.Rules.DefaultAffinity); !ok {
		errs = append(errs, fmt.Errorf("rules.default_affinity %q is not a color", c.Rules.DefaultAffinity))
	}
	if _, ok := hand.ParseMode(c.Layout.Mode); !ok {
		errs = append(errs, fmt.Errorf("layout.mode %q must be fan or linear", c.Layout.Mode))
	}
	if c.Animation.Rate <= 0 {
		errs = append(errs, errors.New("animation.rate must be positive"))
	}
	if c.Animation.Watchdog <= 0 {
		errs = append(errs, errors.New("animation.watchdog must be positive"))
	}
	if c.Animation.PopScale <= 0 {
		errs = append(errs, errors.New("animation.pop_scale must be positive"))
	}
	if c.Animation.PosTolerance < 0 || c.Animation.RotTolerance < 0 {
		errs = append(errs, errors.New("animation tolerances must not be negative"))
	}
	if c.Animation.DealDelay < 0 {
		errs = append(errs, errors.New("animation.deal_delay must not be negative"))
	}
	if c.Layout.CardWidth <= 0 || c.Layout.CardHeight <= 0 {
		errs = append(errs, errors.New("layout card size must be positive"))
	}
	if c.Server.TickRate <= 0 {
		errs = append(errs, errors.New("server.tick_rate must be positive"))
	}
	return errors.Join(errs...)
}

// HandOptions converts the layout and animation sections.
func (c *Config) HandOptions() hand.Options {
	mode, _ := hand.ParseMode(c.Layout.Mode)
	return hand.Options{
		Mode:           mode,
		Center:         c.Layout.Center.Vec(),
		DealFrom:       c.Layout.DealFrom.Vec(),
		FanAngle:       c.Layout.FanAngle,
		FanRadius:      c.Layout.FanRadius,
		Spacing:        c.Layout.Spacing,
		MinSpacing:     c.Layout.MinSpacing,
		CardWidth:      c.Layout.CardWidth,
		CardHeight:     c.Layout.CardHeight,
		ContainerWidth: c.Layout.ContainerWidth,
		Rate:           c.Animation.Rate,
		DealDelay:      c.Animation.DealDelay,
		PopScale:       c.Animation.PopScale,
		PopOffset:      c.Animation.PopOffset,
		PosTolerance:   c.Animation.PosTolerance,
		RotTolerance:   c.Animation.RotTolerance,
		Watchdog:       c.Animation.Watchdog,
	}
}

func (c *Config) DefaultAffinity() affinity.Category {
	return affinity.FromString(c.Rules.DefaultAffinity, affinity.Blue)
}
