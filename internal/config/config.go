// Package config persists the CLI session (server URL and tokens) in
// the user config directory and layers environment overrides on top.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	dirName    = "giftwish"
	fileName   = "config.json"
	dirPerms   = 0700
	filePerms  = 0600
	DefaultURL = "http://localhost:8080"

	envServerURL    = "GIFTWISH_SERVER_URL"
	envToken        = "GIFTWISH_TOKEN"
	envRefreshToken = "GIFTWISH_REFRESH_TOKEN"
)

// Config holds persisted CLI configuration.
type Config struct {
	ServerURL    string `json:"server_url"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dirName, fileName), nil
}

// Load reads the config from disk and applies environment overrides.
// A local .env file is folded into the environment first without
// clobbering variables already set. A missing config file yields a
// zero-value Config, not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	p, err := Path()
	if err == nil {
		data, err := os.ReadFile(p)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
			// first run
		default:
			return nil, err
		}
	}

	if v := os.Getenv(envServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(envToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(envRefreshToken); v != "" {
		cfg.RefreshToken = v
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultURL
	}
	return cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func Save(cfg *Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), dirPerms); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, filePerms)
}

// Clear removes the config file.
func Clear() error {
	p, err := Path()
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// HasToken reports whether a token is configured.
func (c *Config) HasToken() bool {
	return c.Token != ""
}
