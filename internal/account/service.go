// Package account implements the auth and profile service: register,
// login, and dashboard profile reads/updates. All persistence goes
// through the Repository interface; all session handling stays in the
// web layer.
package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/userboard/internal/domain/user"
	"github.com/rs/zerolog"
)

type Repository interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	UpdateAttributes(ctx context.Context, id int64, attrInt int64, attrStr string) error
}

type Service struct {
	users Repository
	log   zerolog.Logger
}

func NewService(users Repository, log zerolog.Logger) *Service {
	return &Service{users: users, log: log}
}

// Register creates an account with a freshly salted password hash and
// zero-value profile attributes. The existence pre-check gives a clean
// ErrDuplicateUsername for the common case; a concurrent insert that
// slips past it surfaces as the same error from the repository's
// unique-violation mapping.
func (s *Service) Register(ctx context.Context, username, password string) (user.User, error) {
	username = strings.TrimSpace(username)

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return user.User{}, user.ErrDuplicateUsername
	}
	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, fmt.Errorf("check username: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, user.User{Username: username, PasswordHash: hash})
	if err != nil {
		return user.User{}, err
	}

	s.log.Info().Str("username", u.Username).Int64("user_id", u.ID).Msg("user registered")
	return u, nil
}

// Login verifies the credentials and returns the account. Unknown
// username and wrong password both come back as ErrInvalidCredentials,
// and the unknown-username path still runs a bcrypt compare so the two
// failures do comparable work.
func (s *Service) Login(ctx context.Context, username, password string) (user.User, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			CheckPassword(dummyHash, password)
			return user.User{}, user.ErrInvalidCredentials
		}
		return user.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if !CheckPassword(u.PasswordHash, password) {
		return user.User{}, user.ErrInvalidCredentials
	}
	return u, nil
}

// Profile returns the account for dashboard display. ErrNotFound means
// the session id no longer resolves (the row was removed out of band).
func (s *Service) Profile(ctx context.Context, id int64) (user.User, error) {
	return s.users.GetByID(ctx, id)
}

// ProfileUpdate carries the raw dashboard form fields. An empty field
// leaves the stored value unchanged.
type ProfileUpdate struct {
	AttributeInt string
	AttributeStr string
}

// UpdateProfile merges the submitted fields over the stored record and
// commits both attributes in one statement. A non-numeric AttributeInt
// fails with ErrInvalidAttribute before anything is written.
func (s *Service) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	if v := strings.TrimSpace(upd.AttributeInt); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return user.User{}, user.ErrInvalidAttribute
		}
		u.AttributeInt = n
	}
	if v := strings.TrimSpace(upd.AttributeStr); v != "" {
		u.AttributeStr = v
	}

	if err := s.users.UpdateAttributes(ctx, u.ID, u.AttributeInt, u.AttributeStr); err != nil {
		return user.User{}, err
	}

	s.log.Debug().Int64("user_id", u.ID).Msg("profile updated")
	return u, nil
}
