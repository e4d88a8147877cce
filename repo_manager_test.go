package auth

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestRepositoryManagerValidate(t *testing.T) {
	db := newTestDB(t)

	manager := NewRepositoryManager(db)
	require.NoError(t, manager.Validate())
	assert.NotPanics(t, manager.MustValidate)

	empty := mngr{}
	assert.Error(t, empty.Validate())
	assert.Panics(t, empty.MustValidate)
}

func TestRepositoryManagerRunInTxCommits(t *testing.T) {
	db := newTestDB(t)
	manager := NewRepositoryManager(db)
	ctx := context.Background()

	err := manager.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err := manager.Accounts().RegisterTx(ctx, tx, NewAccount("jdoe", "jdoe@example.com"))
		if err != nil {
			return err
		}
		profile := (&Profile{AccountID: account.ID, IxPerson: 11}).SetRole(RemoteRoleNormal)
		_, err = manager.Profiles().CreateTx(ctx, tx, profile)
		return err
	})
	require.NoError(t, err)

	account, err := manager.Accounts().FindByLoginName(ctx, "jdoe")
	require.NoError(t, err)

	profile, err := manager.Profiles().Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, profile.IxPerson)
}

func TestRepositoryManagerRunInTxRollsBack(t *testing.T) {
	db := newTestDB(t)
	manager := NewRepositoryManager(db)
	ctx := context.Background()
	boom := stderrors.New("boom")

	err := manager.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := manager.Accounts().RegisterTx(ctx, tx, NewAccount("jdoe", "jdoe@example.com")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = manager.Accounts().FindByLoginName(ctx, "jdoe")
	assert.True(t, IsNotFound(err))
}

func TestRepositoryManagerRunInTxHonoursCancelledContext(t *testing.T) {
	db := newTestDB(t)
	manager := NewRepositoryManager(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := manager.RunInTx(ctx, nil, func(context.Context, bun.Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
