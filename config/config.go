package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"dictate/auth"
)

const (
	EnvConfig = "DICTATE_CONFIG"
	EnvAuth   = "DICTATE_AUTH"
	EnvEngine = "DICTATE_ENGINE"
)

type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Auth      AuthConfig      `toml:"auth"`
	Hotkey    HotkeyConfig    `toml:"hotkey"`
	Clipboard ClipboardConfig `toml:"clipboard"`
	Log       LogConfig       `toml:"log"`
}

type EngineConfig struct {
	Name  string        `toml:"name"`
	Text  string        `toml:"text"`
	Fail  string        `toml:"fail"`
	Delay time.Duration `toml:"delay"`
}

type AuthConfig struct {
	// Status is the status reported before any request.
	Status string `toml:"status"`
	// Answer is what a request settles to when Status is not determined.
	Answer string `toml:"answer"`
}

type HotkeyConfig struct {
	Enabled   bool          `toml:"enabled"`
	Hybrid    bool          `toml:"hybrid"`
	LongPress time.Duration `toml:"longpress"`
}

type ClipboardConfig struct {
	Copy         bool          `toml:"copy"`
	Paste        bool          `toml:"paste"`
	Restore      bool          `toml:"restore"`
	RestoreDelay time.Duration `toml:"restore_delay"`
}

type LogConfig struct {
	Path string `toml:"path"`
}

func Default() Config {
	return Config{
		Engine: EngineConfig{
			Name:  "fake",
			Text:  "hello from dictate",
			Delay: 2 * time.Second,
		},
		Auth: AuthConfig{
			Status: "not_determined",
			Answer: "authorized",
		},
		Hotkey: HotkeyConfig{
			Enabled:   true,
			LongPress: 350 * time.Millisecond,
		},
		Clipboard: ClipboardConfig{
			Copy:         true,
			Restore:      true,
			RestoreDelay: 600 * time.Millisecond,
		},
	}
}

// Load reads path (or $DICTATE_CONFIG) over the defaults, then applies
// environment overrides. A missing path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}
	applyEnvOverrides(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAuth)); v != "" {
		cfg.Auth.Status = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEngine)); v != "" {
		cfg.Engine.Name = v
	}
}

func Validate(cfg Config) error {
	switch cfg.Engine.Name {
	case "fake", "scripted":
	default:
		return fmt.Errorf("engine: unknown name %q", cfg.Engine.Name)
	}
	if cfg.Engine.Delay < 0 {
		return fmt.Errorf("engine: delay must not be negative")
	}
	if _, err := auth.ParseStatus(cfg.Auth.Status); err != nil {
		return fmt.Errorf("auth.status: %w", err)
	}
	if _, err := auth.ParseStatus(cfg.Auth.Answer); err != nil {
		return fmt.Errorf("auth.answer: %w", err)
	}
	if cfg.Hotkey.LongPress <= 0 {
		return fmt.Errorf("hotkey: longpress must be positive")
	}
	if cfg.Clipboard.RestoreDelay < 0 {
		return fmt.Errorf("clipboard: restore_delay must not be negative")
	}
	return nil
}

// Authorizer builds the authorizer described by the auth section.
func (c Config) Authorizer() auth.Authorizer {
	status, _ := auth.ParseStatus(c.Auth.Status)
	answer, _ := auth.ParseStatus(c.Auth.Answer)
	return auth.NewStatic(status, answer)
}
