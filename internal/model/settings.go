package model

// Settings holds user preferences read by the statistics engine and
// snapshotted by backups. The core never mutates settings outside of a
// wholesale restore.
type Settings struct {
	Key        string `json:"key,omitempty"`
	DailyGoal  Number `json:"daily_goal,omitempty"`
	DailyHours Number `json:"daily_hours,omitempty"`
	Theme      string `json:"theme,omitempty"`
}

// SetKey sets the database key for the settings record.
func (s *Settings) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for the settings record.
func (s *Settings) GetKey() string {
	return s.Key
}

// DefaultSettings returns the settings used before the user saves any.
func DefaultSettings() *Settings {
	return &Settings{
		Key:        KeySettings,
		DailyHours: 8,
		Theme:      "system",
	}
}
