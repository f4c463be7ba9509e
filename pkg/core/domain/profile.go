package domain

import "time"

// Profile is the presentation configuration of a user's public page.
// There is at most one per user; it is created with defaults at registration
// and patched field-by-field afterwards.
type Profile struct {
	UserID          string       `json:"user_id"`
	Theme           string       `json:"theme"`
	ButtonStyle     string       `json:"button_style"`
	FontStyle       string       `json:"font_style"`
	BackgroundColor string       `json:"background_color,omitempty"`
	BackgroundImage string       `json:"background_image,omitempty"`
	SocialLinks     []SocialLink `json:"social_links"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// SocialLink is one platform entry on the public page. Platforms are a small
// ordered list, not a map; duplicates are allowed.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// ProfilePatch is a partial settings update. Nil fields are left untouched.
type ProfilePatch struct {
	Theme           *string `json:"theme,omitempty"`
	ButtonStyle     *string `json:"button_style,omitempty"`
	FontStyle       *string `json:"font_style,omitempty"`
	BackgroundColor *string `json:"background_color,omitempty"`
	BackgroundImage *string `json:"background_image,omitempty"`
}

// Fixed palettes. The dashboard only ever offers these ids, but the service
// re-validates because the store has no enum constraint.
var (
	Themes       = []string{"purple", "blue", "green", "red", "orange", "pink"}
	ButtonStyles = []string{"filled", "outline", "soft", "shadow"}
	FontStyles   = []string{"sans", "serif", "mono"}
)

const (
	DefaultTheme       = "purple"
	DefaultButtonStyle = "filled"
	DefaultFontStyle   = "sans"
)

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Validate checks enum membership for every field present in the patch.
func (p ProfilePatch) Validate() error {
	if p.Theme != nil && !contains(Themes, *p.Theme) {
		return Validationf("unknown theme %q", *p.Theme)
	}
	if p.ButtonStyle != nil && !contains(ButtonStyles, *p.ButtonStyle) {
		return Validationf("unknown button style %q", *p.ButtonStyle)
	}
	if p.FontStyle != nil && !contains(FontStyles, *p.FontStyle) {
		return Validationf("unknown font style %q", *p.FontStyle)
	}
	return nil
}

// NewProfile returns the default profile created at registration.
func NewProfile(userID string, now time.Time) *Profile {
	return &Profile{
		UserID:      userID,
		Theme:       DefaultTheme,
		ButtonStyle: DefaultButtonStyle,
		FontStyle:   DefaultFontStyle,
		SocialLinks: []SocialLink{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
