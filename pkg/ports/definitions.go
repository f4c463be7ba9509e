package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

// LinkRepository defines storage operations for links. All filters are
// equality based; ownership checks are compound filters (user_id AND id)
// enforced here, not in the caller.
type LinkRepository interface {
	// ListByUser returns the user's links ascending by position.
	ListByUser(ctx context.Context, userID string) ([]domain.Link, error)
	GetByID(ctx context.Context, userID, linkID string) (*domain.Link, error)
	// Insert assigns the link's ID and position. The position is derived at
	// write time (current max + 1, or 0) so a concurrent add from another
	// session cannot produce a duplicate.
	Insert(ctx context.Context, link *domain.Link) error
	// Update patches title/url only. Returns a not-found error when the link
	// does not belong to the user.
	Update(ctx context.Context, userID, linkID string, patch domain.LinkPatch, now time.Time) error
	// Delete removes the link and compacts the survivors: every remaining
	// link of the same user with a higher position is decremented by one.
	Delete(ctx context.Context, userID, linkID string) error
	// UpdatePosition sets one link's position. Reordering issues one call
	// per link; it is not atomic across the collection.
	UpdatePosition(ctx context.Context, userID, linkID string, position int) error
}

// ClickRecorder records a click on a link. The click row and the link's
// clicks counter move together in one operation; the counter on the link row
// is authoritative.
type ClickRecorder interface {
	RecordClick(ctx context.Context, linkID string) error
}

// VisitRepository stores and aggregates profile visits and click counts.
type VisitRepository interface {
	InsertVisit(ctx context.Context, userID string, at time.Time) error
	TotalVisits(ctx context.Context, userID string) (int64, error)
	// VisitsByDay returns one entry per UTC day with at least one visit,
	// ascending by date.
	VisitsByDay(ctx context.Context, userID string) ([]domain.DayCount, error)
	// ClicksByLink returns the authoritative clicks counter per link id.
	ClicksByLink(ctx context.Context, userID string) (map[string]int64, error)
}

// ProfileRepository stores presentation settings and social links.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch, now time.Time) error
	ReplaceSocialLinks(ctx context.Context, userID string, links []domain.SocialLink) error
}

// UserRepository stores accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// LinkCollection is the manager the UI layer talks to: one user's ordered
// working set plus the mutations over it.
type LinkCollection interface {
	List(ctx context.Context) ([]domain.Link, error)
	Cached() []domain.Link
	Add(ctx context.Context, title, url string) (*domain.Link, error)
	Update(ctx context.Context, linkID string, patch domain.LinkPatch) error
	Delete(ctx context.Context, linkID string) error
	Reorder(ctx context.Context, orderedIDs []string) error
	RecordClick(ctx context.Context, linkID string)
}

// AnalyticsService computes snapshots and records events.
type AnalyticsService interface {
	RecordVisit(ctx context.Context, userID string) error
	RecordLinkClick(ctx context.Context, linkID string) error
	Snapshot(ctx context.Context, userID string) (*domain.AnalyticsSnapshot, error)
}

// PublicProfile is the payload of a public page fetch.
type PublicProfile struct {
	User    *domain.User    `json:"user"`
	Profile *domain.Profile `json:"profile"`
	Links   []domain.Link   `json:"links"`
}

// ProfileService manages presentation settings and assembles public pages.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateSettings(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error)
	SetSocialLinks(ctx context.Context, userID string, links []domain.SocialLink) error
	GetByUsername(ctx context.Context, username string) (*PublicProfile, error)
}

// AuthService manages accounts. Session issuing (JWT) lives in the transport
// layer.
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	// UpsertByEmail finds or creates an account for an OAuth login.
	UpsertByEmail(ctx context.Context, email, displayName string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}
