package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eureka-quiz/web/internal/apiclient"
	"github.com/eureka-quiz/web/internal/models"
	"github.com/eureka-quiz/web/internal/session"
)

type countingStorage struct {
	session.Storage
	gets atomic.Int32
}

func (s *countingStorage) Get(ctx context.Context, clientID, key string) ([]byte, error) {
	s.gets.Add(1)
	return s.Storage.Get(ctx, clientID, key)
}

type slowStorage struct {
	session.Storage
	delay time.Duration
}

func (s *slowStorage) Get(ctx context.Context, clientID, key string) ([]byte, error) {
	time.Sleep(s.delay)
	return s.Storage.Get(ctx, clientID, key)
}

func seed(t *testing.T, st session.Storage, clientID string, sess models.Session) {
	t.Helper()
	raw, err := json.Marshal(sess)
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), clientID, session.UserKey, raw))
}

func TestGetRestoresOnce(t *testing.T) {
	st := &countingStorage{Storage: session.NewMemoryStorage()}
	seed(t, st, "c1", models.Session{Username: "ana", AccessToken: "tok", Role: models.RoleTeacher})
	reg := NewRegistry(st, apiclient.Config{BaseURL: "http://127.0.0.1:1"}, nil)

	cl := reg.Get(context.Background(), "c1")
	require.NotNil(t, cl.Session.Current())
	assert.Equal(t, models.RoleTeacher, cl.Session.Current().Role)

	again := reg.Get(context.Background(), "c1")
	assert.Same(t, cl, again)
	assert.EqualValues(t, 1, st.gets.Load())
	assert.Equal(t, 1, reg.Len())
}

func TestConcurrentFirstGetsWaitForRestore(t *testing.T) {
	st := &slowStorage{Storage: session.NewMemoryStorage(), delay: 100 * time.Millisecond}
	seed(t, st, "c1", models.Session{Username: "ana", AccessToken: "tok", Role: models.RoleTeacher})
	reg := NewRegistry(st, apiclient.Config{BaseURL: "http://127.0.0.1:1"}, nil)

	roles := make([]models.Role, 2)
	var wg sync.WaitGroup
	for i := range roles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			time.Sleep(time.Duration(i) * 10 * time.Millisecond)
			if cur := reg.Get(context.Background(), "c1").Session.Current(); cur != nil {
				roles[i] = cur.Role
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, []models.Role{models.RoleTeacher, models.RoleTeacher}, roles)
	assert.Equal(t, 1, reg.Len())
}

func TestUnauthorizedClearsSessionAndNavigates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	st := session.NewMemoryStorage()
	seed(t, st, "c1", models.Session{Username: "ana", AccessToken: "stale", Role: models.RoleStudent})
	reg := NewRegistry(st, apiclient.Config{BaseURL: srv.URL, Timeout: time.Second}, nil)
	cl := reg.Get(context.Background(), "c1")

	err := cl.API.Get(context.Background(), "joined-classes", nil)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Nil(t, cl.Session.Current())
	assert.True(t, cl.Nav.Take())
	assert.False(t, cl.Nav.Take())

	_, err = st.Get(context.Background(), "c1", session.UserKey)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSweep(t *testing.T) {
	reg := NewRegistry(session.NewMemoryStorage(), apiclient.Config{}, nil)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	reg.Get(context.Background(), "old")
	now = now.Add(time.Hour)
	reg.Get(context.Background(), "new")

	assert.Equal(t, 1, reg.Sweep(30*time.Minute))
	assert.Equal(t, 1, reg.Len())
}

func TestTokenService(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	id := NewClientID()
	tok, err := svc.Issue(id)
	require.NoError(t, err)

	got, err := svc.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = NewTokenService("other", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewTokenService("secret", -time.Minute).Issue(id)
	require.NoError(t, err)
	_, err = svc.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
