package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mediconnect/mediconnect/internal/metrics"
	"github.com/mediconnect/mediconnect/internal/model"
	"github.com/mediconnect/mediconnect/internal/repository"
)

// Hasher is the password hashing collaborator. Digests are opaque.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(digest, plaintext string) (bool, error)
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// fallbackDecoyDigest is verified when the hasher cannot produce a decoy.
// It is well formed so verification still pays the full Argon2id cost.
const fallbackDecoyDigest = "$argon2id$v=19$m=65536,t=3,p=4$" +
	"AAAAAAAAAAAAAAAAAAAAAA$" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// AccountService registers and authenticates user accounts.
type AccountService struct {
	store   UserStore
	hasher  Hasher
	metrics metrics.Recorder

	// decoy is verified when no account matches so that unknown emails
	// cost the same as wrong passwords.
	decoyOnce sync.Once
	decoy     string
}

// NewAccountService creates a new AccountService.
func NewAccountService(store UserStore, hasher Hasher, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		store:   store,
		hasher:  hasher,
		metrics: recorder,
	}
}

// RegisterInput defines input for registering an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // defaults to model.RoleUser
}

// Register creates a user account and returns its id.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (int64, error) {
	if strings.TrimSpace(input.Name) == "" {
		return 0, required("name")
	}
	if strings.TrimSpace(input.Email) == "" {
		return 0, required("email")
	}
	if input.Password == "" {
		return 0, required("password")
	}

	role := input.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return 0, invalid("role", "must be user or admin")
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return 0, storageError("hash password", err)
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: digest,
		Role:         role,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return 0, ErrDuplicateEmail
		}
		return 0, storageError("create user", err)
	}

	s.metrics.IncUserRegistered()

	return user.ID, nil
}

// Authenticate checks credentials and returns the account summary.
// Unknown emails and wrong passwords both return ErrAuthFailed.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*model.UserSummary, error) {
	if email == "" || password == "" {
		s.metrics.IncAuthAttempt(metrics.AuthRejected)
		return nil, ErrAuthFailed
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, storageError("get user", err)
		}
		// Burn the same hashing cost as a real comparison.
		_, _ = s.hasher.Verify(s.decoyDigest(), password)
		s.metrics.IncAuthAttempt(metrics.AuthRejected)
		return nil, ErrAuthFailed
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, storageError("verify stored digest", err)
	}
	if !ok {
		s.metrics.IncAuthAttempt(metrics.AuthRejected)
		return nil, ErrAuthFailed
	}

	s.metrics.IncAuthAttempt(metrics.AuthAccepted)

	summary := user.Summary()
	return &summary, nil
}

func (s *AccountService) decoyDigest() string {
	s.decoyOnce.Do(func() {
		digest, err := s.hasher.Hash("decoy-password-never-matches")
		if err != nil {
			digest = fallbackDecoyDigest
		}
		s.decoy = digest
	})
	return s.decoy
}

// Profile returns the current summary of the account behind a session.
// An account removed since the session started yields ErrSessionInvalid.
func (s *AccountService) Profile(ctx context.Context, id int64) (*model.UserSummary, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, storageError("get user", err)
	}
	summary := user.Summary()
	return &summary, nil
}
