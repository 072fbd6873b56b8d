package fakeuserrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/akulov/reservd/internal/errors"
	"github.com/akulov/reservd/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

// FakeUserRepo is an in-memory Repo for tests.
type FakeUserRepo struct {
	users map[string]*users.User // keyed by login
	lock  sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users: make(map[string]*users.User),
	}
}

func (ur *FakeUserRepo) Insert(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, exists := ur.users[user.Login]; exists {
		return apperrors.ErrDuplicateLogin
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	stored := *user
	ur.users[user.Login] = &stored
	return nil
}

func (ur *FakeUserRepo) GetByLogin(_ context.Context, login string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[login]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

func (ur *FakeUserRepo) List(_ context.Context) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	list := make([]*users.User, 0, len(ur.users))
	for _, u := range ur.users {
		found := *u
		list = append(list, &found)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Login < list[j].Login })
	return list, nil
}
