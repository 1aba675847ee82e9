package user

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/mezunhub/alumni-core/internal/token"
	"github.com/mezunhub/alumni-core/internal/user/entity"
	userrepo "github.com/mezunhub/alumni-core/internal/user/repo"
	"github.com/mezunhub/alumni-core/pkg/utilities"
)

// PasswordHasher defines the minimal hashing interface (abstract so the
// scheme can be swapped without touching the auth flow).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrNotFound       = errors.New("user not found")
	ErrForbidden      = errors.New("forbidden")
)

// AuthResult bundles the public user view with a freshly issued session
// token.
type AuthResult struct {
	User  *entity.AuthView
	Token string
}

// Service orchestrates registration, login, and profile flows.
type Service struct {
	repo   userrepo.Repository
	hasher PasswordHasher
	tokens *token.Service
}

// NewService constructs a Service. Nil repo and hasher fall back to the
// Postgres repository and bcrypt at the given cost.
func NewService(db *sqlx.DB, r userrepo.Repository, hasher PasswordHasher, tokens *token.Service, bcryptCost int) *Service {
	if r == nil {
		r = userrepo.NewUserRepo(db)
	}
	if hasher == nil {
		hasher = BcryptHasher{Cost: bcryptCost}
	}
	return &Service{repo: r, hasher: hasher, tokens: tokens}
}

// Register creates an account and issues a session token. The email
// pre-check is best-effort; a concurrent duplicate insert is caught by the
// store's uniqueness constraint and mapped to ErrEmailTaken. The token is
// issued only after the insert succeeds.
func (s *Service) Register(ctx context.Context, firstName, lastName, email, password string) (*AuthResult, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)
	if firstName == "" || lastName == "" || password == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidInput
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		ID:           utilities.NewUserID(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
	}
	created, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	tok, err := s.tokens.Issue(created.ID, created.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: created.AuthView(), Token: tok}, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller. The admin flag in the
// returned view comes from the row, never from the client.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrBadCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrBadCredentials
	}

	tok, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u.AuthView(), Token: tok}, nil
}

// Profile returns the owner-visible projection for the given user id.
func (s *Service) Profile(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// UpdateProfile merges the supplied fields into the row; absent fields keep
// their prior values.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch entity.ProfilePatch) (*entity.Profile, error) {
	p, err := s.repo.UpdateProfile(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// PublicProfile returns the unauthenticated subset for the given user id.
func (s *Service) PublicProfile(ctx context.Context, userID string) (*entity.PublicProfile, error) {
	p, err := s.repo.GetPublicByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListForAdmin returns the administrator account listing, gated on the
// caller's admin flag re-read from the store.
func (s *Service) ListForAdmin(ctx context.Context, callerID string, limit, offset int) ([]entity.AdminView, error) {
	isAdmin, err := s.repo.IsAdmin(ctx, callerID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if !isAdmin {
		return nil, ErrForbidden
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListAdminViews(ctx, limit, offset)
}
