package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/scholarsync/service-api-go/internal/auth/entity"
	userrepo "github.com/scholarsync/service-api-go/internal/auth/repo"
	"github.com/scholarsync/service-api-go/pkg/utilities"
)

var (
	ErrBadCredentials   = errors.New("invalid credentials")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrUserNotFound     = errors.New("user not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// Service orchestrates registration, login and account lifecycle flows.
type Service struct {
	repo   *userrepo.UserRepo
	hasher PasswordHasher
	tokens *TokenService
}

func NewService(db *sqlx.DB, r *userrepo.UserRepo, hasher PasswordHasher, tokens *TokenService) *Service {
	if r == nil {
		r = userrepo.NewUserRepo(db)
	}
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	return &Service{repo: r, hasher: hasher, tokens: tokens}
}

// Tokens exposes the token service for middleware wiring.
func (s *Service) Tokens() *TokenService { return s.tokens }

// NormalizeEmail trims and lowercases an email for uniqueness checks and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FullName  string
	StudentID string
	Major     string
	YearLevel int
}

// Register creates an account and issues a session token for it. The
// existence check runs before the insert for a friendlier error; the unique
// constraint on email remains the correctness boundary under concurrent
// duplicate registrations.
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, *entity.PublicUser, error) {
	email := NormalizeEmail(in.Email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return "", nil, ErrEmailRegistered
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", nil, err
	}

	u := &entity.User{
		ID:           utilities.NewEntityID(),
		Email:        email,
		Username:     strings.TrimSpace(in.Username),
		FullName:     strings.TrimSpace(in.FullName),
		StudentID:    strings.TrimSpace(in.StudentID),
		Major:        strings.TrimSpace(in.Major),
		YearLevel:    in.YearLevel,
		PasswordHash: hash,
		PlanType:     "base",
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return "", nil, ErrEmailRegistered
		}
		return "", nil, err
	}

	token, err := s.tokens.Issue(u.ID, map[string]string{"email": u.Email})
	if err != nil {
		return "", nil, err
	}
	return token, u.Public(), nil
}

// Login authenticates by normalized email and password. Absent user and wrong
// password both fail with ErrBadCredentials to avoid account enumeration.
func (s *Service) Login(ctx context.Context, email, password string) (string, *entity.PublicUser, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return "", nil, ErrBadCredentials
	}
	token, err := s.tokens.Issue(u.ID, map[string]string{"email": u.Email})
	if err != nil {
		return "", nil, err
	}
	return token, u.Public(), nil
}

// Refresh verifies a still-valid token and issues a fresh full-length one for
// the same subject. An already-expired token cannot be refreshed; the old
// token stays valid until its own expiry.
func (s *Service) Refresh(tokenString string) (string, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return "", err
	}
	extra := map[string]string{}
	if claims.Email != "" {
		extra["email"] = claims.Email
	}
	return s.tokens.Issue(claims.Subject, extra)
}

// Profile returns the public view for a user id.
func (s *Service) Profile(ctx context.Context, id string) (*entity.PublicUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u.Public(), nil
}

// UpdateProfile applies a partial profile update.
func (s *Service) UpdateProfile(ctx context.Context, id string, cs *entity.ProfileChangeset) (*entity.PublicUser, error) {
	if cs.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	u, err := s.repo.UpdateProfile(ctx, id, cs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u.Public(), nil
}

// DeleteAccount removes the user and, through the cascade on tasks.user_id,
// every task they own. Tokens already issued for the account remain valid
// until expiry.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}
