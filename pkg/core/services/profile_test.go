package services

import (
	"context"
	"testing"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

func newTestProfileService(t *testing.T) (*ProfileService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewProfileService(store, store, store), store
}

func seedAccount(t *testing.T, store *memory.Store, username string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	user := &domain.User{Username: username, Email: username + "@example.com", CreatedAt: now, UpdatedAt: now}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateProfile(context.Background(), domain.NewProfile(user.ID, now)); err != nil {
		t.Fatal(err)
	}
	return user
}

func TestUpdateSettingsPatchesOnlyGivenFields(t *testing.T) {
	svc, store := newTestProfileService(t)
	user := seedAccount(t, store, "alice")

	theme := "blue"
	got, err := svc.UpdateSettings(context.Background(), user.ID, domain.ProfilePatch{Theme: &theme})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if got.Theme != "blue" {
		t.Errorf("Theme = %q, want %q", got.Theme, "blue")
	}
	if got.ButtonStyle != domain.DefaultButtonStyle {
		t.Errorf("ButtonStyle = %q, want default %q", got.ButtonStyle, domain.DefaultButtonStyle)
	}
	if got.FontStyle != domain.DefaultFontStyle {
		t.Errorf("FontStyle = %q, want default %q", got.FontStyle, domain.DefaultFontStyle)
	}
}

func TestUpdateSettingsRejectsUnknownValues(t *testing.T) {
	svc, store := newTestProfileService(t)
	user := seedAccount(t, store, "alice")

	tests := []struct {
		name  string
		patch domain.ProfilePatch
	}{
		{"unknown theme", domain.ProfilePatch{Theme: strPtr("neon")}},
		{"unknown button style", domain.ProfilePatch{ButtonStyle: strPtr("glass")}},
		{"unknown font style", domain.ProfilePatch{FontStyle: strPtr("comic")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateSettings(context.Background(), user.ID, tt.patch)
			if !domain.IsKind(err, domain.KindValidation) {
				t.Fatalf("UpdateSettings returned %v, want validation error", err)
			}
		})
	}

	// Failed patches never touch the store.
	profile, _ := svc.Get(context.Background(), user.ID)
	if profile.Theme != domain.DefaultTheme {
		t.Errorf("Theme = %q after rejected patches, want default", profile.Theme)
	}
}

func TestSetSocialLinksValidation(t *testing.T) {
	svc, store := newTestProfileService(t)
	user := seedAccount(t, store, "alice")

	err := svc.SetSocialLinks(context.Background(), user.ID, []domain.SocialLink{
		{Platform: "", URL: "https://x.com/alice"},
	})
	if !domain.IsKind(err, domain.KindValidation) {
		t.Errorf("empty platform returned %v, want validation error", err)
	}

	err = svc.SetSocialLinks(context.Background(), user.ID, []domain.SocialLink{
		{Platform: "github", URL: "not-a-url"},
	})
	if !domain.IsKind(err, domain.KindValidation) {
		t.Errorf("bad url returned %v, want validation error", err)
	}

	// Duplicate platforms are allowed and order is preserved.
	links := []domain.SocialLink{
		{Platform: "github", URL: "https://github.com/alice"},
		{Platform: "github", URL: "https://github.com/alice-work"},
	}
	if err := svc.SetSocialLinks(context.Background(), user.ID, links); err != nil {
		t.Fatalf("SetSocialLinks failed: %v", err)
	}
	profile, _ := svc.Get(context.Background(), user.ID)
	if len(profile.SocialLinks) != 2 || profile.SocialLinks[1].URL != "https://github.com/alice-work" {
		t.Errorf("SocialLinks = %v, want both github entries in order", profile.SocialLinks)
	}
}

func TestGetByUsernameAssemblesPublicPage(t *testing.T) {
	svc, store := newTestProfileService(t)
	user := seedAccount(t, store, "alice")

	for i, title := range []string{"Blog", "Shop"} {
		link := &domain.Link{UserID: user.ID, Title: title, URL: "https://a.com"}
		if err := store.Insert(context.Background(), link); err != nil {
			t.Fatal(err)
		}
		if link.Position != i {
			t.Fatalf("seed link position = %d, want %d", link.Position, i)
		}
	}

	page, err := svc.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if page.User.Username != "alice" {
		t.Errorf("User.Username = %q", page.User.Username)
	}
	if page.Profile.Theme != domain.DefaultTheme {
		t.Errorf("Profile.Theme = %q, want default", page.Profile.Theme)
	}
	if len(page.Links) != 2 || page.Links[0].Title != "Blog" || page.Links[1].Title != "Shop" {
		t.Errorf("Links = %v, want Blog then Shop", page.Links)
	}
}

func TestGetByUsernameUnknownUser(t *testing.T) {
	svc, _ := newTestProfileService(t)
	_, err := svc.GetByUsername(context.Background(), "nobody")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("GetByUsername returned %v, want not-found", err)
	}
}

func strPtr(s string) *string { return &s }
