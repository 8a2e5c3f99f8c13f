package importer

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/heartmarshall/mmovies-importer/internal/app/importer/linestream"
)

// Config holds importer pipeline settings.
type Config struct {
	PlaintextDir    string `yaml:"plaintext_dir"     env:"IMPORTER_PLAINTEXT_DIR"`
	DryRun          bool   `yaml:"dry_run"           env:"IMPORTER_DRY_RUN"`
	Reset           bool   `yaml:"reset"             env:"IMPORTER_RESET"`
	ContinueOnError bool   `yaml:"continue_on_error" env:"IMPORTER_CONTINUE_ON_ERROR"`
	ProgressEvery   int    `yaml:"progress_every"    env:"IMPORTER_PROGRESS_EVERY"    env-default:"10000"`
	Separator       string `yaml:"separator"         env:"IMPORTER_SEPARATOR"         env-default:"="`
}

// SeparatorByte returns the header underline character.
func (c Config) SeparatorByte() byte {
	if c.Separator == "" {
		return linestream.DefaultSeparator
	}
	return c.Separator[0]
}

// Validate checks the separator is a single ASCII character.
func (c Config) Validate() error {
	if c.Separator == "" {
		return nil
	}
	if len(c.Separator) != 1 || c.Separator[0] >= 0x80 {
		return fmt.Errorf("importer config: separator must be a single ASCII character, got %q", c.Separator)
	}
	return nil
}

// LoadConfig reads importer configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults. Reset and ContinueOnError default to true
// by seeding rather than env-default, which would override an explicit false.
func LoadConfig(path string) (*Config, error) {
	cfg := Config{Reset: true, ContinueOnError: true}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("importer config: file %s not found", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("importer config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("importer config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
