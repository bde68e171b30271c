package service_test

import (
	"context"
	"sync"
	"time"

	"hearsay/internal/domain"
)

// fakeUserRepo is an in-memory port.UserRepository that enforces the same
// uniqueness rules as the users table.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User

	creates int
	links   int

	// When gate is set, the first gateSize Create calls block until all of
	// them have arrived, forcing a race on the unique constraints.
	gate     *sync.WaitGroup
	gateSize int
	gated    int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}}
}

func (f *fakeUserRepo) add(u domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = &u
	out := u
	return &out
}

func (f *fakeUserRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	wait := f.gate != nil && f.gated < f.gateSize
	if wait {
		f.gated++
	}
	f.mu.Unlock()
	if wait {
		f.gate.Done()
		f.gate.Wait()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	for _, u := range f.users {
		if user.Email != "" && u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
		if u.Username == user.Username {
			return domain.ErrDuplicateUsername
		}
		if sameIdentity(u, user.Provider, user.SubjectID) {
			return domain.ErrDuplicateIdentity
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func sameIdentity(u *domain.User, provider *domain.AuthProvider, subject *string) bool {
	return provider != nil && subject != nil && u.Provider != nil && u.SubjectID != nil &&
		*u.Provider == *provider && *u.SubjectID == *subject
}

func (f *fakeUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID int64) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.ID == userID })
}

func (f *fakeUserRepo) GetByProviderID(_ context.Context, provider domain.AuthProvider, subjectID string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return sameIdentity(u, &provider, &subjectID) })
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return f.find(func(u *domain.User) bool { return u.Email != "" && u.Email == email })
}

func (f *fakeUserRepo) ExistsUsername(_ context.Context, username string) (bool, error) {
	_, err := f.find(func(u *domain.User) bool { return u.Username == username })
	return err == nil, nil
}

func (f *fakeUserRepo) LinkProvider(_ context.Context, userID int64, provider domain.AuthProvider, subjectID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links++
	for _, u := range f.users {
		if u.ID != userID && sameIdentity(u, &provider, &subjectID) {
			return nil, domain.ErrDuplicateIdentity
		}
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Provider = &provider
	u.SubjectID = &subjectID
	u.UpdatedAt = time.Now()
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) UpdateNames(_ context.Context, userID int64, firstName, lastName *string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}
