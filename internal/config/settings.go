package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Theme names a colour palette.
type Theme string

// Available themes.
const (
	ThemeTerraCotta   Theme = "TERRA_COTTA"
	ThemeForestGreen  Theme = "FOREST_GREEN"
	ThemeAutumnLeaves Theme = "AUTUMN_LEAVES"
)

// Palette is the set of colours a theme uses.
type Palette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
	Muted     string `json:"muted"`
}

var palettes = map[Theme]Palette{
	ThemeTerraCotta:   {Primary: "#52939D", Secondary: "#BA5A31", Accent: "#E8B04B", Muted: "#8A8A8A"},
	ThemeForestGreen:  {Primary: "#2E7B57", Secondary: "#A3B18A", Accent: "#DDA15E", Muted: "#7D8C7A"},
	ThemeAutumnLeaves: {Primary: "#B1782F", Secondary: "#7F4F24", Accent: "#C9A227", Muted: "#9C8F80"},
}

// Palette returns the theme's colours, falling back to TERRA_COTTA.
func (t Theme) Palette() Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[ThemeTerraCotta]
}

// ParseTheme accepts theme names case-insensitively.
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := palettes[t]; !ok {
		return "", fmt.Errorf("unknown theme %q", s)
	}
	return t, nil
}

// Language is the interface and audit-detail language.
type Language string

// Supported languages.
const (
	LanguageDutch   Language = "nl"
	LanguageEnglish Language = "en"
)

// AppSettings are the reviewer-facing toggles shown in the dashboard.
type AppSettings struct {
	AppName             string   `json:"appName" mapstructure:"app_name"`
	Theme               Theme    `json:"theme" mapstructure:"theme"`
	Language            Language `json:"language" mapstructure:"language"`
	Reviewer            string   `json:"reviewer" mapstructure:"reviewer"`
	ShowDemo            bool     `json:"showDemo" mapstructure:"show_demo"`
	ShowAIAnalysis      bool     `json:"showAiAnalysis" mapstructure:"show_ai_analysis"`
	ShowUserComments    bool     `json:"showUserComments" mapstructure:"show_user_comments"`
	CurrencyInThousands bool     `json:"currencyInThousands" mapstructure:"currency_in_thousands"`
	HideSmallAmounts    bool     `json:"hideSmallAmounts" mapstructure:"hide_small_amounts"`
}

// DefaultSettings mirrors the out-of-the-box dashboard.
func DefaultSettings() AppSettings {
	return AppSettings{
		AppName:          "Transitoria Controle Tool",
		Theme:            ThemeTerraCotta,
		Language:         LanguageDutch,
		Reviewer:         "J. de Vries",
		ShowDemo:         true,
		ShowAIAnalysis:   true,
		ShowUserComments: true,
	}
}

// Validate rejects unknown themes and languages.
func (s AppSettings) Validate() error {
	if _, err := ParseTheme(string(s.Theme)); err != nil {
		return err
	}
	if s.Language != LanguageDutch && s.Language != LanguageEnglish {
		return fmt.Errorf("unsupported language %q", s.Language)
	}
	if strings.TrimSpace(s.Reviewer) == "" {
		return fmt.Errorf("reviewer name is required")
	}
	return nil
}

// SetDefaults registers the settings defaults on v.
func SetDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("settings.app_name", d.AppName)
	v.SetDefault("settings.theme", string(d.Theme))
	v.SetDefault("settings.language", string(d.Language))
	v.SetDefault("settings.reviewer", d.Reviewer)
	v.SetDefault("settings.show_demo", d.ShowDemo)
	v.SetDefault("settings.show_ai_analysis", d.ShowAIAnalysis)
	v.SetDefault("settings.show_user_comments", d.ShowUserComments)
	v.SetDefault("settings.currency_in_thousands", d.CurrencyInThousands)
	v.SetDefault("settings.hide_small_amounts", d.HideSmallAmounts)
}

// LoadSettings reads the settings section from v.
func LoadSettings(v *viper.Viper) (AppSettings, error) {
	s := DefaultSettings()
	if err := v.UnmarshalKey("settings", &s); err != nil {
		return AppSettings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	theme, err := ParseTheme(string(s.Theme))
	if err != nil {
		return AppSettings{}, err
	}
	s.Theme = theme
	s.Language = Language(strings.ToLower(string(s.Language)))

	if err := s.Validate(); err != nil {
		return AppSettings{}, err
	}
	return s, nil
}
