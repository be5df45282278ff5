package auth

import (
	"context" // Request scoped calls

	"vegetable_inventory/internal/domain" // Importing domain models

	"github.com/pkg/errors"      // Error wrapping
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// User-visible authentication messages
const (
	DuplicateUserMessage      = "Username already exists. Please choose a different one."
	InvalidCredentialsMessage = "Invalid username or password. Please try again."
)

var (
	// ErrDuplicateUser means the username is already registered
	ErrDuplicateUser = errors.New("username already exists")
	// ErrInvalidCredentials covers both unknown users and wrong passwords
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// compareHashAndPassword is swapped in tests to observe comparisons
var compareHashAndPassword = bcrypt.CompareHashAndPassword

// Service registers and authenticates users
type Service struct {
	users     UserRepository // User storage
	cost      int            // bcrypt cost
	dummyHash []byte         // Compared against for unknown users
}

// NewService creates a Service hashing with the given bcrypt cost
func NewService(users UserRepository, cost int) *Service {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("vegetable-inventory-dummy"), cost) // Same cost as real hashes
	return &Service{users: users, cost: cost, dummyHash: dummy}
}

// Register hashes password and stores a new user.
// The pre-check gives the common case a clean answer; the unique index decides races.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if _, err := s.users.GetByName(ctx, username); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}
	user := &domain.User{Name: username, Password: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns the user when the password matches, ErrInvalidCredentials otherwise
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByName(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		// Unknown users cost one bcrypt comparison too, so timing does not reveal them
		_ = compareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}
	if err := compareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Authenticate reports whether password matches username's stored hash.
// Unknown users are false, not an error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (bool, error) {
	_, err := s.Login(ctx, username, password)
	if errors.Is(err, ErrInvalidCredentials) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
