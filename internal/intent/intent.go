package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/storage"

	"github.com/scholarden/scholarden-admin/internal/db/models"
	"github.com/scholarden/scholarden-admin/internal/uniuri"
)

const (
	// CookieName is the cookie carrying the intent correlation token across
	// the sign-in redirect.
	CookieName = "onboard_intent"
)

var (
	// ErrStorageNil is returned when the store is constructed without a backend.
	ErrStorageNil = errors.New("intent storage is nil")
	// ErrInvalidIntent is returned when a captured intent fails validation.
	ErrInvalidIntent = errors.New("invalid intent")
)

// Intent is a visitor's pre-authentication declaration.
type Intent struct {
	Role      models.Role `json:"role"                validate:"required,oneof=student researcher professional entrepreneur other"`
	Phone     string      `json:"phone,omitempty"     validate:"omitempty,max=50"`
	IDType    string      `json:"idType,omitempty"    validate:"omitempty,max=50"`
	IDValue   string      `json:"idValue,omitempty"   validate:"omitempty,max=100"`
	CreatedAt time.Time   `json:"createdAt,omitempty"`
}

// Store holds pending intents keyed by opaque token. Entries are write-once,
// read-once and expire after the configured TTL.
type Store struct {
	storage  storage.Storage
	ttl      time.Duration
	validate *validator.Validate
}

// NewStore creates a Store on the given storage backend.
func NewStore(st storage.Storage, ttl time.Duration) (*Store, error) {
	if st == nil {
		return nil, ErrStorageNil
	}

	return &Store{
		storage:  st,
		ttl:      ttl,
		validate: validator.New(),
	}, nil
}

// TTL returns the configured intent lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Capture validates and stores an intent, returning the correlation token.
// Failure here is fatal to the onboarding attempt only, never to sign-in.
func (s *Store) Capture(in Intent) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidIntent, err)
	}

	in.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("failed to encode intent: %w", err)
	}

	token := uniuri.NewLen(uniuri.TokenLen)

	if err := s.storage.Set(token, data, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store intent: %w", err)
	}

	return token, nil
}

// Consume returns the stored intent for the token and removes it.
// A missing, expired or empty token yields (nil, nil): absence is a valid
// outcome, not an error, because anonymous default-role signups are fine.
func (s *Store) Consume(token string) (*Intent, error) {
	if token == "" {
		return nil, nil
	}

	data, err := s.storage.Get(token)
	if err != nil {
		return nil, fmt.Errorf("failed to read intent: %w", err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	// read-once: the entry goes away even if decoding fails below
	if err := s.storage.Delete(token); err != nil {
		return nil, fmt.Errorf("failed to delete intent: %w", err)
	}

	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to decode intent: %w", err)
	}

	// backends without native eviction (and clock skew on those with it)
	// still have to honor the TTL contract
	if !in.CreatedAt.IsZero() && time.Since(in.CreatedAt) > s.ttl {
		return nil, nil
	}

	return &in, nil
}
