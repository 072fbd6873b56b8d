package users

import "context"

// Repo is the principal store contract. Insert fails with
// apperrors.ErrDuplicateLogin when the login already exists; GetByLogin
// returns apperrors.ErrUserNotFound for an unknown login.
type Repo interface {
	Insert(ctx context.Context, user *User) error
	GetByLogin(ctx context.Context, login string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}
