package domain

import (
	"net/url"
	"strings"
	"time"
)

// MaxTitleLength is the longest title accepted for a link.
const MaxTitleLength = 100

// Link represents one outbound hyperlink on a user's public page.
// Position is the zero-based rank inside the owner's collection; positions
// are dense per owner (exactly 0..n-1 after every successful mutation).
type Link struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LinkPatch is a partial update of a link. Nil fields are left untouched.
// Position and clicks are never patchable through here.
type LinkPatch struct {
	Title *string `json:"title,omitempty"`
	URL   *string `json:"url,omitempty"`
}

// ValidateTitle checks the title precondition for Add/Update.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return Validationf("title must not be empty")
	}
	if len(title) > MaxTitleLength {
		return Validationf("title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

// ValidateURL checks that raw parses as an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return Validationf("invalid URL: %v", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return Validationf("URL must be absolute")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Validationf("URL scheme must be http or https")
	}
	return nil
}

// Validate applies the patch preconditions without touching any store.
func (p LinkPatch) Validate() error {
	if p.Title != nil {
		if err := ValidateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.URL != nil {
		if err := ValidateURL(*p.URL); err != nil {
			return err
		}
	}
	return nil
}

// Empty reports whether the patch changes nothing.
func (p LinkPatch) Empty() bool {
	return p.Title == nil && p.URL == nil
}
