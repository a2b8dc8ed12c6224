package session

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStorage(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ctx := context.Background()
	s := NewPostgresStorage(mock)

	mock.ExpectQuery(`SELECT value FROM client_storage`).
		WithArgs("c1", UserKey).
		WillReturnError(pgx.ErrNoRows)
	_, err = s.Get(ctx, "c1", UserKey)
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectExec(`INSERT INTO client_storage`).
		WithArgs("c1", UserKey, `{"username":"ana"}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, s.Set(ctx, "c1", UserKey, []byte(`{"username":"ana"}`)))

	mock.ExpectQuery(`SELECT value FROM client_storage`).
		WithArgs("c1", UserKey).
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`{"username":"ana"}`))
	got, err := s.Get(ctx, "c1", UserKey)
	require.NoError(t, err)
	assert.Equal(t, `{"username":"ana"}`, string(got))

	mock.ExpectExec(`DELETE FROM client_storage`).
		WithArgs("c1", UserKey).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, s.Delete(ctx, "c1", UserKey))

	assert.NoError(t, mock.ExpectationsWereMet())
}
