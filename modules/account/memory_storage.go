package account

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps users in process memory. It is safe for concurrent use
// and enforces the same uniqueness and versioning rules as the database
// adapters.
type MemoryStorage struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStorage) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u.clone(), nil
}

func (s *MemoryStorage) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return s.byID[id].clone(), nil
}

func (s *MemoryStorage) FindByVerificationToken(_ context.Context, token string, now time.Time) (*User, error) {
	return s.findBy(func(u *User) bool {
		return u.Verification.Valid(now) && u.Verification.Token == token
	})
}

func (s *MemoryStorage) FindByResetToken(_ context.Context, token string, now time.Time) (*User, error) {
	return s.findBy(func(u *User) bool {
		return u.PasswordReset.Valid(now) && u.PasswordReset.Token == token
	})
}

func (s *MemoryStorage) findBy(match func(*User) bool) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.byID {
		if match(u) {
			return u.clone(), nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryStorage) Insert(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[u.Email]; taken {
		return ErrEmailTaken
	}
	if _, exists := s.byID[u.ID]; exists {
		return ErrEmailTaken
	}

	s.byID[u.ID] = u.clone()
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *MemoryStorage) Update(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[u.ID]
	if !ok {
		return ErrUserNotFound
	}
	if current.Version != u.Version {
		return ErrStaleUser
	}
	if current.Email != u.Email {
		if _, taken := s.byEmail[u.Email]; taken {
			return ErrEmailTaken
		}
		delete(s.byEmail, current.Email)
		s.byEmail[u.Email] = u.ID
	}

	u.Version++
	s.byID[u.ID] = u.clone()
	return nil
}
