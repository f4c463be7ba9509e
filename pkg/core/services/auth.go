package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

const minPasswordLength = 8

// AuthService manages accounts. Registration also creates the default
// profile so the public page exists from the first login.
type AuthService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
}

func NewAuthService(users ports.UserRepository, profiles ports.ProfileRepository) *AuthService {
	return &AuthService{users: users, profiles: profiles}
}

func (s *AuthService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Validationf("a valid email is required")
	}
	if username == "" {
		return nil, domain.Validationf("username must not be empty")
	}
	if len(password) < minPasswordLength {
		return nil, domain.Validationf("password must be at least %d characters", minPasswordLength)
	}

	if existing, err := s.users.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, domain.Validationf("email already registered")
	}
	if existing, err := s.users.GetUserByUsername(ctx, username); err == nil && existing != nil {
		return nil, domain.Validationf("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.PersistErr("hashing password", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, domain.PersistErr("creating user", err)
	}

	if err := s.profiles.CreateProfile(ctx, domain.NewProfile(user.ID, now)); err != nil {
		return nil, domain.PersistErr("creating profile", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.Validationf("invalid email or password")
		}
		return nil, domain.FetchErr("loading user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.Validationf("invalid email or password")
	}
	return user, nil
}

// UpsertByEmail finds or creates the account behind an OAuth login. New
// accounts get a username derived from the email local part and the default
// profile.
func (s *AuthService) UpsertByEmail(ctx context.Context, email, displayName string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if user, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return user, nil
	} else if !domain.IsKind(err, domain.KindNotFound) {
		return nil, domain.FetchErr("loading user", err)
	}

	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}
	if existing, err := s.users.GetUserByUsername(ctx, username); err == nil && existing != nil {
		username = username + "-" + existing.ID[:8]
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:    username,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, domain.PersistErr("creating user", err)
	}
	if err := s.profiles.CreateProfile(ctx, domain.NewProfile(user.ID, now)); err != nil {
		return nil, domain.PersistErr("creating profile", err)
	}
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		return nil, domain.FetchErr("loading user", err)
	}
	return user, nil
}

var _ ports.AuthService = (*AuthService)(nil)
