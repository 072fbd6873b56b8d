package fakeuserrepo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/akulov/reservd/internal/errors"
	"github.com/akulov/reservd/users"
	fakeuserrepo "github.com/akulov/reservd/users/repofake"
)

func TestInsertAssignsIDAndRejectsDuplicates(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	ctx := context.Background()

	user := &users.User{Login: "john", Role: "user", PasswordHash: "h"}
	require.NoError(t, repo.Insert(ctx, user))
	require.NotEmpty(t, user.ID)

	err := repo.Insert(ctx, &users.User{Login: "john", Role: "admin", PasswordHash: "h2"})
	require.ErrorIs(t, err, apperrors.ErrDuplicateLogin)

	found, err := repo.GetByLogin(ctx, "john")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	_, err = repo.GetByLogin(ctx, "nobody")
	require.ErrorIs(t, err, apperrors.ErrUserNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
