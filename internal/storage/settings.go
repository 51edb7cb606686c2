package storage

import (
	"encoding/json"

	"github.com/dori/grove/internal/model"
)

// LoadSettings returns the stored settings merged over the defaults.
// Fields missing from the stored blob keep their default value; the nested
// filters object is merged the same way one level down.
func (s *Store) LoadSettings() model.Settings {
	raw, ok, err := s.backend.Get(KeySettings)
	if err != nil {
		s.log.Error("failed to load settings", "error", err)
		return model.DefaultSettings()
	}
	if !ok || raw == "" {
		return model.DefaultSettings()
	}

	settings, err := MergeSettings([]byte(raw))
	if err != nil {
		s.log.Warn("invalid settings data, using defaults", "error", err)
		return model.DefaultSettings()
	}
	return settings
}

// SaveSettings replaces the stored settings
func (s *Store) SaveSettings(settings model.Settings) bool {
	data, err := json.Marshal(settings)
	if err != nil {
		s.log.Error("failed to encode settings", "error", err)
		return false
	}
	return s.write(KeySettings, data)
}

// MergeSettings decodes raw on top of model.DefaultSettings.
// Decoding into a populated struct only overwrites keys present in raw, which
// gives the field-by-field merge for both levels.
func MergeSettings(raw []byte) (model.Settings, error) {
	settings := model.DefaultSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		return model.DefaultSettings(), err
	}

	if settings.Tags == nil {
		settings.Tags = []string{}
	}
	if settings.Filters.SelectedTags == nil {
		settings.Filters.SelectedTags = []string{}
	}
	if settings.Filters.SelectedPriorities == nil {
		settings.Filters.SelectedPriorities = []model.Priority{}
	}
	return settings, nil
}
