package config

import (
	"os"
	"path/filepath"
)

const sessionFile = "session.json"

// StoredSession persists the wallet session between CLI invocations.
type StoredSession struct {
	Account string `json:"account"`
	ChainID int64  `json:"chain_id"`
}

// LoadSession reads the stored session. Returns ok=false when none exists.
func (c *Config) LoadSession() (*StoredSession, bool) {
	s, err := loadJSON[StoredSession](filepath.Join(c.configDir, sessionFile))
	if err != nil || s.Account == "" {
		return nil, false
	}
	return s, true
}

// SaveSession persists the session.
func (c *Config) SaveSession(s *StoredSession) error {
	return saveJSON(filepath.Join(c.configDir, sessionFile), s)
}

// ClearSession removes the stored session.
func (c *Config) ClearSession() error {
	err := os.Remove(filepath.Join(c.configDir, sessionFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
