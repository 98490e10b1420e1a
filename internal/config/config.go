package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gYonder/tsh/internal/bookmark"
	"github.com/gYonder/tsh/internal/history"
	"github.com/gYonder/tsh/internal/jobtable"
)

// Config holds the shell's ambient settings: job-table and history-ring
// sizing, the display theme, and where the bookmark file lives. None of
// this is part of the command language itself (spec.md's Non-goals never
// scope out configuration) — it's read once at startup the same way the
// teacher reads its own config.yaml.
type Config struct {
	Theme         string `yaml:"theme"`
	HistorySize   int    `yaml:"history_size"`
	JobTableSize  int    `yaml:"job_table_size"`
	BookmarkPath  string `yaml:"bookmark_path,omitempty"`
}

func Default() *Config {
	return &Config{
		Theme:        "auto",
		HistorySize:  history.DefaultCapacity,
		JobTableSize: jobtable.DefaultCapacity,
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tsh"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// HistoryPath returns the file readline persists its own line history to,
// separate from the in-process history.Ring.
func HistoryPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// BookmarkFilePath resolves the configured bookmark path, falling back to
// bookmark.DefaultPath() ($HOME/.tshinfo) when unset.
func (c *Config) BookmarkFilePath() string {
	if c.BookmarkPath != "" {
		return c.BookmarkPath
	}
	return bookmark.DefaultPath()
}

// Load reads ~/.tsh/config.yaml if present, then applies the TSH_HISTSIZE
// and TSH_JOBS_MAX environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if v := os.Getenv("TSH_HISTSIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistorySize = n
		}
	}
	if v := os.Getenv("TSH_JOBS_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.JobTableSize = n
		}
	}

	return cfg, nil
}

// Save writes the config to ~/.tsh/config.yaml.
func Save(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
