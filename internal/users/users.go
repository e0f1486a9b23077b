// Package users is the identity side of the app: Google-backed
// accounts resolved by email, created on first login.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quorum/internal/models"
	"quorum/internal/polls"
	"quorum/pkg/palette"
)

// Repo is the persistence contract for user rows.
type Repo interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id int, fullName, avatar string) error
}

// Attrs carries the Google profile fields used when an account is
// created on first login.
type Attrs struct {
	FullName string
	Avatar   string
	Token    string
}

type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// FindOrCreateByEmail resolves the account for a verified email. On
// first login a row is created with a fresh public uid and a profile
// color from the palette; the color is assigned here once and never
// recomputed. An existing account is returned untouched.
func (s *Service) FindOrCreateByEmail(ctx context.Context, email string, attrs Attrs) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, polls.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user = &models.User{
		UID:          uuid.New(),
		Email:        email,
		FullName:     attrs.FullName,
		Avatar:       attrs.Avatar,
		ProfileColor: palette.Random(),
		Token:        attrs.Token,
	}
	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetByID loads one user.
func (s *Service) GetByID(ctx context.Context, id int) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateName changes the display name. Avatar and color are
// untouched.
func (s *Service) UpdateName(ctx context.Context, id int, fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return polls.ValidationErrors{"full_name": "Name is required"}
	}
	if len(fullName) > 255 {
		return polls.ValidationErrors{"full_name": "Name must be 255 characters or less"}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	return s.repo.UpdateProfile(ctx, id, fullName, user.Avatar)
}

// UpdateAvatar points the account at a new avatar URL. Name and color
// are untouched.
func (s *Service) UpdateAvatar(ctx context.Context, id int, avatarUrl string) error {
	avatarUrl = strings.TrimSpace(avatarUrl)
	if avatarUrl == "" || !(strings.HasPrefix(avatarUrl, "http://") || strings.HasPrefix(avatarUrl, "https://")) {
		return polls.ValidationErrors{"avatar": "Avatar must be an http(s) URL"}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	return s.repo.UpdateProfile(ctx, id, user.FullName, avatarUrl)
}
