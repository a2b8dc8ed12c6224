package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eureka-quiz/web/internal/models"
	"github.com/eureka-quiz/web/internal/notify"
)

func TestLoginReplacesPriorSession(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s := NewStore("c1", storage, nil, nil)

	require.NoError(t, s.Login(ctx, models.Session{Username: "ana", Email: "ana@x", AccessToken: "t1", Role: models.RoleTeacher}))
	require.NoError(t, s.Login(ctx, models.Session{Username: "ben", AccessToken: "t2", Role: models.RoleStudent}))

	cur := s.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "ben", cur.Username)
	assert.Empty(t, cur.Email)
	assert.Equal(t, "t2", s.Token())

	raw, err := storage.Get(ctx, "c1", UserKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"ben","access_token":"t2","role":"student"}`, string(raw))
}

func TestLogoutClearsBothCopies(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	notes := notify.NewQueue()
	s := NewStore("c1", storage, notes, nil)
	require.NoError(t, s.Login(ctx, models.Session{Username: "ana", AccessToken: "t", Role: models.RoleTeacher}))

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	_, err := storage.Get(ctx, "c1", UserKey)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []notify.Notification{{Level: notify.LevelSuccess, Message: LogoutMessage}}, notes.Drain())
}

func TestClearIsSilent(t *testing.T) {
	ctx := context.Background()
	notes := notify.NewQueue()
	s := NewStore("c1", NewMemoryStorage(), notes, nil)
	require.NoError(t, s.Login(ctx, models.Session{Username: "ana", AccessToken: "t", Role: models.RoleTeacher}))

	s.Clear(ctx)
	assert.Nil(t, s.Current())
	assert.Empty(t, notes.Drain())
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   *models.Session
	}{
		{name: "absent", want: nil},
		{name: "malformed json", stored: `{"username":`, want: nil},
		{name: "missing identity", stored: `{"access_token":"t","role":"teacher"}`, want: nil},
		{
			name:   "well formed",
			stored: `{"username":"ana","email":"a@x","access_token":"t","role":"teacher"}`,
			want:   &models.Session{Username: "ana", Email: "a@x", AccessToken: "t", Role: models.RoleTeacher},
		},
		{
			name:   "unknown role kept verbatim",
			stored: `{"username":"ana","access_token":"t","role":"admin"}`,
			want:   &models.Session{Username: "ana", AccessToken: "t", Role: "admin"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := NewMemoryStorage()
			if tt.stored != "" {
				require.NoError(t, storage.Set(ctx, "c1", UserKey, []byte(tt.stored)))
			}
			s := NewStore("c1", storage, nil, nil)
			assert.Equal(t, tt.want, s.Restore(ctx))
			assert.Equal(t, tt.want, s.Current())
		})
	}
}

func TestRestoreKeepsNewerLogin(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, "c1", UserKey, []byte(`{"username":"old","access_token":"t0","role":"student"}`)))
	s := NewStore("c1", storage, nil, nil)
	require.NoError(t, s.Login(ctx, models.Session{Username: "ana", AccessToken: "t1", Role: models.RoleTeacher}))

	got := s.Restore(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "ana", got.Username)
	assert.Equal(t, "t1", s.Token())
}

func TestStoresAreIsolatedPerClient(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	a := NewStore("a", storage, nil, nil)
	b := NewStore("b", storage, nil, nil)
	require.NoError(t, a.Login(ctx, models.Session{Username: "ana", AccessToken: "t", Role: models.RoleTeacher}))

	assert.Nil(t, b.Restore(ctx))
	b.Clear(ctx)
	assert.NotNil(t, NewStore("a", storage, nil, nil).Restore(ctx))
}
