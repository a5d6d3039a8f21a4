// Package config provides Viper-based configuration loading for the battle
// simulator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig holds the locations of the YAML game data.
type ContentConfig struct {
	// SpeciesDir is the directory of species definition files.
	SpeciesDir string `mapstructure:"species_dir"`
	// ItemsDir is the directory of item definition files.
	ItemsDir string `mapstructure:"items_dir"`
}

// AIConfig holds opponent agent settings.
type AIConfig struct {
	// Difficulty is the agent tier: "easy", "medium", "hard", or
	// "impossible".
	Difficulty string `mapstructure:"difficulty"`
}

// SimConfig holds battle simulation settings.
type SimConfig struct {
	// TeamSize is the number of goobers per side.
	TeamSize int `mapstructure:"team_size"`
	// Level is the starting level for every team member.
	Level int `mapstructure:"level"`
	// PlayerRole and OpponentRole are trainer role names; empty means no
	// role.
	PlayerRole   string `mapstructure:"player_role"`
	OpponentRole string `mapstructure:"opponent_role"`
	// MaxTurns aborts runaway battles.
	MaxTurns int `mapstructure:"max_turns"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Content ContentConfig `mapstructure:"content"`
	AI      AIConfig      `mapstructure:"ai"`
	Sim     SimConfig     `mapstructure:"sim"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAI(c.AI); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSim(c.Sim); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.SpeciesDir == "" {
		errs = append(errs, "content.species_dir must not be empty")
	}
	if c.ItemsDir == "" {
		errs = append(errs, "content.items_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAI(a AIConfig) error {
	validTiers := map[string]bool{"easy": true, "medium": true, "hard": true, "impossible": true}
	if !validTiers[a.Difficulty] {
		return fmt.Errorf("ai.difficulty must be one of [easy, medium, hard, impossible], got %q", a.Difficulty)
	}
	return nil
}

func validateSim(s SimConfig) error {
	var errs []string
	if s.TeamSize < 1 {
		errs = append(errs, fmt.Sprintf("sim.team_size must be >= 1, got %d", s.TeamSize))
	}
	if s.Level < 1 {
		errs = append(errs, fmt.Sprintf("sim.level must be >= 1, got %d", s.Level))
	}
	if s.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("sim.max_turns must be >= 1, got %d", s.MaxTurns))
	}
	validRoles := map[string]bool{
		"": true, "none": true, "necromancer": true, "gambler": true,
		"cs_student": true, "weeb": true, "joker": true,
	}
	if !validRoles[s.PlayerRole] {
		errs = append(errs, fmt.Sprintf("sim.player_role %q is not recognized", s.PlayerRole))
	}
	if !validRoles[s.OpponentRole] {
		errs = append(errs, fmt.Sprintf("sim.opponent_role %q is not recognized", s.OpponentRole))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with GOOBER_ prefix
	v.SetEnvPrefix("GOOBER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is given.
//
// Postcondition: the returned config passes Validate.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are statically valid; Unmarshal cannot fail on them.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("content.species_dir", "content/species")
	v.SetDefault("content.items_dir", "content/items")

	v.SetDefault("ai.difficulty", "medium")

	v.SetDefault("sim.team_size", 3)
	v.SetDefault("sim.level", 5)
	v.SetDefault("sim.player_role", "none")
	v.SetDefault("sim.opponent_role", "none")
	v.SetDefault("sim.max_turns", 200)
}
