// Package memory provides an in-memory implementation of the repository
// ports, used as an injected test double. Each Store is scoped to its owner;
// there is no package-level state.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	profiles map[string]*domain.Profile
	links    map[string]*domain.Link
	visits   map[string][]time.Time // userID -> visit times (UTC)
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		profiles: make(map[string]*domain.Profile),
		links:    make(map[string]*domain.Link),
		visits:   make(map[string][]time.Time),
	}
}

// --- Links ---

func (s *Store) userLinksLocked(userID string) []*domain.Link {
	var out []*domain.Link
	for _, l := range s.links {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.userLinksLocked(userID)
	out := make([]domain.Link, 0, len(owned))
	for _, l := range owned {
		out = append(out, *l)
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, userID, linkID string) (*domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[linkID]
	if !ok || l.UserID != userID {
		return nil, domain.NotFoundf("link %s not found", linkID)
	}
	cp := *l
	return &cp, nil
}

func (s *Store) Insert(ctx context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	position := 0
	for _, l := range s.links {
		if l.UserID == link.UserID && l.Position >= position {
			position = l.Position + 1
		}
	}
	link.ID = uuid.NewString()
	link.Position = position
	cp := *link
	s.links[link.ID] = &cp
	return nil
}

func (s *Store) Update(ctx context.Context, userID, linkID string, patch domain.LinkPatch, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[linkID]
	if !ok || l.UserID != userID {
		return domain.NotFoundf("link %s not found", linkID)
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
	if patch.URL != nil {
		l.URL = *patch.URL
	}
	l.UpdatedAt = now
	return nil
}

func (s *Store) Delete(ctx context.Context, userID, linkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[linkID]
	if !ok || l.UserID != userID {
		return domain.NotFoundf("link %s not found", linkID)
	}
	removed := l.Position
	delete(s.links, linkID)
	for _, other := range s.links {
		if other.UserID == userID && other.Position > removed {
			other.Position--
		}
	}
	return nil
}

func (s *Store) UpdatePosition(ctx context.Context, userID, linkID string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[linkID]
	if !ok || l.UserID != userID {
		return domain.NotFoundf("link %s not found", linkID)
	}
	l.Position = position
	return nil
}

func (s *Store) RecordClick(ctx context.Context, linkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[linkID]
	if !ok {
		return domain.NotFoundf("link %s not found", linkID)
	}
	l.Clicks++
	return nil
}

// --- Visits ---

func (s *Store) InsertVisit(ctx context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits[userID] = append(s.visits[userID], at.UTC())
	return nil
}

func (s *Store) TotalVisits(ctx context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.visits[userID])), nil
}

func (s *Store) VisitsByDay(ctx context.Context, userID string) ([]domain.DayCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int64)
	for _, at := range s.visits[userID] {
		counts[at.Format("2006-01-02")]++
	}
	out := make([]domain.DayCount, 0, len(counts))
	for date, count := range counts {
		out = append(out, domain.DayCount{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Store) ClicksByLink(ctx context.Context, userID string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64)
	for _, l := range s.links {
		if l.UserID == userID {
			out[l.ID] = l.Clicks
		}
	}
	return out, nil
}

// --- Profiles ---

func (s *Store) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *profile
	s.profiles[profile.UserID] = &cp
	return nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.NotFoundf("profile for user %s not found", userID)
	}
	cp := *p
	cp.SocialLinks = append([]domain.SocialLink{}, p.SocialLinks...)
	return &cp, nil
}

func (s *Store) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return domain.NotFoundf("profile for user %s not found", userID)
	}
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.ButtonStyle != nil {
		p.ButtonStyle = *patch.ButtonStyle
	}
	if patch.FontStyle != nil {
		p.FontStyle = *patch.FontStyle
	}
	if patch.BackgroundColor != nil {
		p.BackgroundColor = *patch.BackgroundColor
	}
	if patch.BackgroundImage != nil {
		p.BackgroundImage = *patch.BackgroundImage
	}
	p.UpdatedAt = now
	return nil
}

func (s *Store) ReplaceSocialLinks(ctx context.Context, userID string, links []domain.SocialLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return domain.NotFoundf("profile for user %s not found", userID)
	}
	p.SocialLinks = append([]domain.SocialLink{}, links...)
	return nil
}

// --- Users ---

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = uuid.NewString()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.NotFoundf("user not found")
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NotFoundf("user not found")
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NotFoundf("user not found")
}

// Ensure interface compliance
var (
	_ ports.LinkRepository    = (*Store)(nil)
	_ ports.ClickRecorder     = (*Store)(nil)
	_ ports.VisitRepository   = (*Store)(nil)
	_ ports.ProfileRepository = (*Store)(nil)
	_ ports.UserRepository    = (*Store)(nil)
)
