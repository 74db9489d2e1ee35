package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/td0m/taskboard/pkg/task"
)

const (
	DefaultConfigFileName = "taskman.toml"
	EnvConfigPath         = "TASKMAN_CONFIG"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	AddSubtask string `toml:"add_subtask"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Toggle     string `toml:"toggle"`
	Delete     string `toml:"delete"`
	Rename     string `toml:"rename"`
	Tag        string `toml:"tag"`
	Untag      string `toml:"untag"`
	Color      string `toml:"color"`
	Reminder   string `toml:"reminder"`
	Unremind   string `toml:"clear_reminder"`
	Fold       string `toml:"fold"`
	NextFilter string `toml:"next_filter"`
	TagFilter  string `toml:"tag_filter"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
}

type Reminder struct {
	Interval string `toml:"interval"`
	Window   string `toml:"window"`
	Notifier string `toml:"notifier"`
}

type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Config struct {
	DefaultFilter string   `toml:"default_filter"`
	DefaultColor  string   `toml:"default_color"`
	DeletePolicy  string   `toml:"delete_policy"`
	Reminder      Reminder `toml:"reminder"`
	Log           Log      `toml:"log"`
	Keys          Keymap   `toml:"keys"`
}

// ResolveConfigPath prefers $TASKMAN_CONFIG, then the user config dir
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "taskman", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults first if it does not exist
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		DefaultFilter: task.All.String(),
		DefaultColor:  string(task.DefaultColor()),
		DeletePolicy:  "children",
		Reminder: Reminder{
			Interval: "60s",
			Window:   "5m",
			Notifier: "desktop",
		},
		Log: Log{
			Level: "info",
		},
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			AddSubtask: "A",
			Up:         "k",
			Down:       "j",
			Toggle:     " ",
			Delete:     "d",
			Rename:     "r",
			Tag:        "t",
			Untag:      "T",
			Color:      "c",
			Reminder:   "m",
			Unremind:   "M",
			Fold:       "z",
			NextFilter: "f",
			TagFilter:  "/",
			Confirm:    "enter",
			Cancel:     "esc",
		},
	}
}

// Validate checks every field that is parsed later on
func (c Config) Validate() error {
	if _, err := task.ParseStatus(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if _, ok := task.ParseColor(c.DefaultColor); !ok {
		return fmt.Errorf("default_color: unknown color %q", c.DefaultColor)
	}
	if _, err := task.ParseDeletePolicy(c.DeletePolicy); err != nil {
		return fmt.Errorf("delete_policy: %w", err)
	}
	if _, err := c.Interval(); err != nil {
		return fmt.Errorf("reminder.interval: %w", err)
	}
	if _, err := c.Window(); err != nil {
		return fmt.Errorf("reminder.window: %w", err)
	}
	return nil
}

func (c Config) Status() task.Status {
	s, _ := task.ParseStatus(c.DefaultFilter)
	return s
}

func (c Config) Color() task.Color {
	col, _ := task.ParseColor(c.DefaultColor)
	return col
}

func (c Config) Policy() task.DeletePolicy {
	p, _ := task.ParseDeletePolicy(c.DeletePolicy)
	return p
}

func (c Config) Interval() (time.Duration, error) {
	return parsePositive(c.Reminder.Interval, time.Minute)
}

func (c Config) Window() (time.Duration, error) {
	return parsePositive(c.Reminder.Window, 5*time.Minute)
}

func parsePositive(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback, err
	}
	if d <= 0 {
		return fallback, errors.New("must be positive")
	}
	return d, nil
}
