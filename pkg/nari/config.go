package nari

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Variant selects how a dismissed prompt is undone.
type Variant string

const (
	// VariantReview restores the board locally.
	VariantReview Variant = "review"
	// VariantLive also asks the authoritative side for the position again.
	VariantLive Variant = "live"
)

type Config struct {
	Orientation string  `json:"orientation" env:"NARI_ORIENTATION"`
	Variant     Variant `json:"variant" env:"NARI_VARIANT"`
	Keyboard    bool    `json:"keyboard" env:"NARI_KEYBOARD"`
	LogLevel    string  `json:"log_level" env:"NARI_LOG_LEVEL"`
}

func DefaultConfig() Config {
	return Config{
		Orientation: "black",
		Variant:     VariantReview,
		LogLevel:    "info",
	}
}

func (c Config) Validate() error {
	if _, err := ParseColor(c.Orientation); err != nil {
		return err
	}
	switch c.Variant {
	case VariantReview, VariantLive:
	default:
		return fmt.Errorf("unknown variant: %s", c.Variant)
	}
	return nil
}

func FindConfigPath() (string, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", "", err
	}
	dir := cwd
	for {
		path := filepath.Join(dir, "config.json")
		if _, err := os.Stat(path); err == nil {
			return path, filepath.Dir(path), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", "", fmt.Errorf("config.json not found from %s: %w", cwd, os.ErrNotExist)
}

// LoadConfig reads path over DefaultConfig and then applies NARI_* variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// ResolveConfig loads arg when given, otherwise the nearest config.json.
// Without any config file the defaults and environment still apply.
func ResolveConfig(arg string) (Config, error) {
	if arg != "" {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return Config{}, err
		}
		return LoadConfig(abs)
	}
	path, _, err := FindConfigPath()
	if err == nil {
		return LoadConfig(path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}
