package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

const sessionConfigKey = "session"

// ErrConfigNotFound 配置项不存在
var ErrConfigNotFound = errors.New("config key not found")

// SessionSnapshot 会话快照：只保存选择与状态，不保存计算结果
type SessionSnapshot struct {
	ID         string `json:"id"`
	State      string `json:"state"`
	Instrument string `json:"instrument"`
	Parameter  string `json:"parameter"`
	Grade      string `json:"grade"`
}

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, key)
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// SaveSession 保存当前会话快照
func (s *Store) SaveSession(snap SessionSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	return s.SetConfig(sessionConfigKey, string(b))
}

// LoadSession 读取上次会话快照；从未保存过时返回 ok=false
func (s *Store) LoadSession() (snap SessionSnapshot, ok bool, err error) {
	value, err := s.GetConfig(sessionConfigKey)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return SessionSnapshot{}, false, nil
		}
		return SessionSnapshot{}, false, err
	}
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		return SessionSnapshot{}, false, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return snap, true, nil
}
