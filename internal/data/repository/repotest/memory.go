// Package repotest provides in-memory repositories that behave like the
// Postgres and Redis implementations, for service and handler tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"puremilk/internal/data/entity"
	"puremilk/internal/data/repository"

	"github.com/google/uuid"
)

// New returns a repository group backed entirely by memory.
func New() *repository.Repository {
	return &repository.Repository{
		User:       NewUserStore(),
		Customer:   NewCustomerStore(),
		Revocation: NewRevocationStore(),
		Health:     &HealthStore{},
	}
}

// UserStore mirrors the users table, including the unique email and
// single-admin constraints.
type UserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User

	// Err, when set, is returned by every call.
	Err error
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*entity.User)}
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	if u.LockedUntil != nil {
		t := *u.LockedUntil
		c.LockedUntil = &t
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

func (s *UserStore) byEmail(email string) *entity.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *UserStore) Create(ctx context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if s.byEmail(user.Email) != nil {
		return repository.ErrDuplicateEmail
	}
	if user.Role == entity.RoleAdmin {
		for _, u := range s.users {
			if u.Role == entity.RoleAdmin {
				return repository.ErrAdminExists
			}
		}
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	u := s.byEmail(email)
	if u == nil {
		return nil, nil
	}
	return copyUser(u), nil
}

func (s *UserStore) ExistsByRole(ctx context.Context, role entity.UserRole) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}

	for _, u := range s.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) RecordFailedLogin(ctx context.Context, id uuid.UUID, threshold int, lockUntil, now time.Time) (*entity.LoginFailure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	u, ok := s.users[id]
	if !ok || (u.LockedUntil != nil && u.LockedUntil.After(now)) {
		return nil, nil
	}

	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= threshold {
		t := lockUntil
		u.LockedUntil = &t
	}
	u.UpdatedAt = now

	failure := &entity.LoginFailure{FailedLoginAttempts: u.FailedLoginAttempts}
	if u.LockedUntil != nil {
		t := *u.LockedUntil
		failure.LockedUntil = &t
	}
	return failure, nil
}

func (s *UserStore) RecordSuccessfulLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	t := at
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLogin = &t
	u.UpdatedAt = at
	return nil
}

func (s *UserStore) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if u, ok := s.users[id]; ok {
		t := at
		u.LastLogin = &t
	}
	return nil
}

func (s *UserStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (s *UserStore) SetActiveByEmail(ctx context.Context, email string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	u := s.byEmail(email)
	if u == nil {
		return repository.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (s *UserStore) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}

	u := s.byEmail(email)
	if u == nil {
		return false, nil
	}
	delete(s.users, u.ID)
	return true, nil
}

// Put stores a user as-is, bypassing constraints. Useful for seeding state.
func (s *UserStore) Put(user *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = copyUser(user)
}

// Get returns a copy of the stored user, or nil.
func (s *UserStore) Get(id uuid.UUID) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return copyUser(u)
}

// Len reports the number of stored users.
func (s *UserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// CustomerStore mirrors the customers table.
type CustomerStore struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*entity.Customer

	// Err, when set, is returned by every call.
	Err error
}

func NewCustomerStore() *CustomerStore {
	return &CustomerStore{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (s *CustomerStore) Create(ctx context.Context, customer *entity.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, c := range s.customers {
		if c.Email == customer.Email {
			return repository.ErrDuplicateEmail
		}
	}
	c := *customer
	s.customers[customer.ID] = &c
	return nil
}

func (s *CustomerStore) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	c, ok := s.customers[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (s *CustomerStore) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, c := range s.customers {
		if c.Email == email {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (s *CustomerStore) matching(search string) []*entity.Customer {
	needle := strings.ToLower(search)
	var out []*entity.Customer
	for _, c := range s.customers {
		if needle == "" ||
			strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) ||
			strings.Contains(strings.ToLower(c.Phone), needle) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *CustomerStore) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	all := s.matching(search)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *CustomerStore) Count(ctx context.Context, search string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.matching(search))), nil
}

func (s *CustomerStore) Update(ctx context.Context, customer *entity.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.customers[customer.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *customer
	s.customers[customer.ID] = &c
	return nil
}

func (s *CustomerStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.customers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.customers, id)
	return nil
}

// RevocationStore is an expiring set of token ids.
type RevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewRevocationStore() *RevocationStore {
	return &RevocationStore{revoked: make(map[string]time.Time), now: time.Now}
}

// WithClock sets the clock used for expiry checks.
func (s *RevocationStore) WithClock(now func() time.Time) *RevocationStore {
	s.now = now
	return s
}

func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = s.now().Add(ttl)
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[tokenID]
	return ok && s.now().Before(until), nil
}

// HealthStore reports Err from Check.
type HealthStore struct {
	Err error
}

func (h *HealthStore) Check(ctx context.Context) error {
	return h.Err
}
