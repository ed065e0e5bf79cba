package models

// Language is one of the supported interface languages.
type Language string

const (
	LanguageKorean   Language = "ko"
	LanguageEnglish  Language = "en"
	LanguageJapanese Language = "ja"
	LanguageChinese  Language = "zh"
)

// SupportedLanguages lists every accepted Language value.
var SupportedLanguages = []Language{LanguageKorean, LanguageEnglish, LanguageJapanese, LanguageChinese}

func (l Language) Valid() bool {
	for _, s := range SupportedLanguages {
		if l == s {
			return true
		}
	}
	return false
}

// Settings represents application-wide settings
type Settings struct {
	Language              Language `json:"language" yaml:"language"`
	ObsidianVaultPath     *string  `json:"obsidianVaultPath" yaml:"obsidianVaultPath"`     // absolute path of the Obsidian vault
	ObsidianDefaultFolder *string  `json:"obsidianDefaultFolder" yaml:"obsidianDefaultFolder"` // vault-relative folder for new notes
}

func (s Settings) Clone() Settings {
	c := s
	c.ObsidianVaultPath = cloneString(s.ObsidianVaultPath)
	c.ObsidianDefaultFolder = cloneString(s.ObsidianDefaultFolder)
	return c
}

// VaultPath returns the configured vault path or "".
func (s Settings) VaultPath() string {
	if s.ObsidianVaultPath == nil {
		return ""
	}
	return *s.ObsidianVaultPath
}

// DefaultFolder returns the configured default note folder or "".
func (s Settings) DefaultFolder() string {
	if s.ObsidianDefaultFolder == nil {
		return ""
	}
	return *s.ObsidianDefaultFolder
}
