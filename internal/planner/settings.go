package planner

import "github.com/julianstephens/bium/internal/models"

// SettingsPatch updates settings. A path field pointing at "" clears it.
type SettingsPatch struct {
	Language              *models.Language
	ObsidianVaultPath     *string
	ObsidianDefaultFolder *string
}

func (s *Store) Settings() models.Settings {
	return s.settings.Clone()
}

func (s *Store) UpdateSettings(patch SettingsPatch) (models.Settings, error) {
	next := s.settings.Clone()
	if patch.Language != nil {
		if !patch.Language.Valid() {
			return models.Settings{}, invalid("unsupported language %q", *patch.Language)
		}
		next.Language = *patch.Language
	}
	if patch.ObsidianVaultPath != nil {
		next.ObsidianVaultPath = optional(*patch.ObsidianVaultPath)
	}
	if patch.ObsidianDefaultFolder != nil {
		next.ObsidianDefaultFolder = optional(*patch.ObsidianDefaultFolder)
	}
	s.settings = next
	return next.Clone(), nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
