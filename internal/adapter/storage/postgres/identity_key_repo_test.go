package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityKeyRepo_Create_New(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdentityKeyRepo(mock)

	mock.ExpectExec("INSERT INTO identity_keys").
		WithArgs("payer-1", "02abcd", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := repo.Create(context.Background(), "payer-1", "02abcd")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityKeyRepo_Create_ExistingIsNotOverwritten(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdentityKeyRepo(mock)

	mock.ExpectExec("INSERT INTO identity_keys").
		WithArgs("payer-1", "02other", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := repo.Create(context.Background(), "payer-1", "02other")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestIdentityKeyRepo_Find(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdentityKeyRepo(mock)
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("SELECT .+ FROM identity_keys WHERE identity").
		WithArgs("payer-1").
		WillReturnRows(pgxmock.NewRows([]string{"identity", "public_key_hex", "created_at"}).
			AddRow("payer-1", "02abcd", createdAt))

	key, err := repo.Find(context.Background(), "payer-1")
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.Equal(t, "02abcd", key.PublicKeyHex)
	assert.Equal(t, createdAt, key.CreatedAt)
}

func TestIdentityKeyRepo_Find_Unknown(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdentityKeyRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM identity_keys WHERE identity").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"identity", "public_key_hex", "created_at"}))

	key, err := repo.Find(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, key)
}
