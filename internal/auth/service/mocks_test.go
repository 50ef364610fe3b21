package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/AlibekovAA/account-service/backend/internal/account/domain"
	"github.com/AlibekovAA/account-service/backend/internal/account/repository"
	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
)

type mockRepo struct {
	findByIdentifierFunc   func(ctx context.Context, identifier string) (domain.Account, error)
	insertFunc             func(ctx context.Context, candidate domain.Candidate) (domain.Account, error)
	updatePasswordHashFunc func(ctx context.Context, email string, hash string) error
	updateLastLoginFunc    func(ctx context.Context, id domain.ID, at time.Time) error
	recordLoginFunc        func(ctx context.Context, entry domain.LoginHistoryEntry) error
}

func (m *mockRepo) FindByIdentifier(ctx context.Context, identifier string) (domain.Account, error) {
	if m.findByIdentifierFunc != nil {
		return m.findByIdentifierFunc(ctx, identifier)
	}
	return domain.Account{}, repository.ErrAccountNotFound
}

func (m *mockRepo) Insert(ctx context.Context, candidate domain.Candidate) (domain.Account, error) {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, candidate)
	}
	return domain.Account{}, errors.New("insert not configured")
}

func (m *mockRepo) UpdatePasswordHash(ctx context.Context, email string, hash string) error {
	if m.updatePasswordHashFunc != nil {
		return m.updatePasswordHashFunc(ctx, email, hash)
	}
	return nil
}

func (m *mockRepo) UpdateLastLogin(ctx context.Context, id domain.ID, at time.Time) error {
	if m.updateLastLoginFunc != nil {
		return m.updateLastLoginFunc(ctx, id, at)
	}
	return nil
}

func (m *mockRepo) RecordLogin(ctx context.Context, entry domain.LoginHistoryEntry) error {
	if m.recordLoginFunc != nil {
		return m.recordLoginFunc(ctx, entry)
	}
	return nil
}

type mockHasher struct {
	hashFunc   func(password string) (string, error)
	verifyFunc func(password string, hash string) bool
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Verify(password string, hash string) bool {
	if m.verifyFunc != nil {
		return m.verifyFunc(password, hash)
	}
	return hash == "hashed:"+password
}

type recordedLogin struct {
	accountID domain.ID
	at        time.Time
}

type mockRecorder struct {
	mu     sync.Mutex
	logins []recordedLogin
}

func (m *mockRecorder) RecordLogin(accountID domain.ID, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins = append(m.logins, recordedLogin{accountID: accountID, at: at})
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logins)
}

// memoryRepo enforces the same uniqueness rules as the database schema:
// usernames case-sensitively, emails case-insensitively.
type memoryRepo struct {
	mu       sync.Mutex
	accounts map[domain.ID]domain.Account
	history  []domain.LoginHistoryEntry
	nextID   int
	writes   int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{accounts: make(map[domain.ID]domain.Account)}
}

func (r *memoryRepo) FindByIdentifier(_ context.Context, identifier string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := domain.ClassifyIdentifier(identifier) == domain.IdentifierEmail
	for _, a := range r.accounts {
		if email && strings.EqualFold(a.Email, identifier) {
			return a, nil
		}
		if !email && a.Username == identifier {
			return a, nil
		}
	}
	return domain.Account{}, repository.ErrAccountNotFound
}

func (r *memoryRepo) byID(id domain.ID) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return domain.Account{}, repository.ErrAccountNotFound
	}
	return a, nil
}

func (r *memoryRepo) Insert(_ context.Context, c domain.Candidate) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Username == c.Username {
			return domain.Account{}, repository.ErrUsernameTaken
		}
		if strings.EqualFold(a.Email, c.Email) {
			return domain.Account{}, repository.ErrEmailTaken
		}
	}

	r.nextID++
	r.writes++
	a := domain.Account{
		ID:           domain.ID(fmt.Sprintf("acc-%d", r.nextID)),
		FullName:     c.FullName,
		Username:     c.Username,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	r.accounts[a.ID] = a
	return a, nil
}

func (r *memoryRepo) UpdatePasswordHash(_ context.Context, email string, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			a.PasswordHash = hash
			r.accounts[id] = a
			r.writes++
			return nil
		}
	}
	return repository.ErrAccountNotFound
}

func (r *memoryRepo) UpdateLastLogin(_ context.Context, id domain.ID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.LastLoginAt = &at
	r.accounts[id] = a
	return nil
}

func (r *memoryRepo) RecordLogin(_ context.Context, entry domain.LoginHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, entry)
	return nil
}

func (r *memoryRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *memoryRepo) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "account-test", "DEBUG")
}
