package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/redisclient"
	"github.com/prefeitura-rio/app-pessoas/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession(id string) *Session {
	return &Session{
		ID:        id,
		Token:     "jwt",
		User:      models.User{ID: "1", Email: "admin@example.com"},
		CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStore_TTL(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(context.Background(), sampleSession("a"), time.Minute))
	require.NoError(t, store.Save(context.Background(), sampleSession("b"), 0))

	_, err := store.Load(context.Background(), "a")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Load(context.Background(), "a")
	assert.ErrorIs(t, err, models.ErrSessionExpired)
	assert.Equal(t, 1, store.Len(), "only the expired entry is dropped")

	_, err = store.Load(context.Background(), "a")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	_, err = store.Load(context.Background(), "b")
	assert.NoError(t, err, "ttl 0 never expires")

	existed, err := store.Delete(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.Delete(context.Background(), "b")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), sampleSession("a"), 0))

	got, err := store.Load(context.Background(), "a")
	require.NoError(t, err)
	got.Token = "changed"

	again, err := store.Load(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "jwt", again.Token)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pessoas", "session.json")
	store := NewFileStore(path)

	_, err := store.Current()
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	require.NoError(t, store.Save(context.Background(), sampleSession("sid-1"), time.Hour))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, "sid-1", current.ID)
	assert.True(t, current.CreatedAt.Equal(sampleSession("").CreatedAt))

	_, err = store.Load(context.Background(), "other")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	existed, err := store.Delete(context.Background(), "other")
	require.NoError(t, err)
	assert.False(t, existed, "a different id leaves the file alone")

	existed, err = store.Delete(context.Background(), "sid-1")
	require.NoError(t, err)
	assert.True(t, existed)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Current()
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrSessionNotFound)
}

func TestCookieBinder_BindAndRead(t *testing.T) {
	binder := NewCookieBinder([]byte("test-secret-key"), "pessoas_session", time.Hour, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	require.NoError(t, binder.Bind(rec, req, "sid-42"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "pessoas_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotContains(t, cookies[0].Value, "sid-42", "cookie is encoded")

	next := httptest.NewRequest(http.MethodGet, "/v1/people", nil)
	next.AddCookie(cookies[0])
	id, ok := binder.SessionID(next)
	assert.True(t, ok)
	assert.Equal(t, "sid-42", id)
}

func TestCookieBinder_RejectsForeignCookie(t *testing.T) {
	binder := NewCookieBinder([]byte("test-secret-key"), "pessoas_session", time.Hour, false)
	other := NewCookieBinder([]byte("another-secret"), "pessoas_session", time.Hour, false)

	rec := httptest.NewRecorder()
	require.NoError(t, other.Bind(rec, httptest.NewRequest(http.MethodGet, "/", nil), "sid-1"))

	req := httptest.NewRequest(http.MethodGet, "/v1/people", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	_, ok := binder.SessionID(req)
	assert.False(t, ok)

	_, ok = binder.SessionID(httptest.NewRequest(http.MethodGet, "/v1/people", nil))
	assert.False(t, ok, "no cookie")
}

func TestCookieBinder_Clear(t *testing.T) {
	binder := NewCookieBinder([]byte("test-secret-key"), "pessoas_session", time.Hour, true)

	rec := httptest.NewRecorder()
	require.NoError(t, binder.Clear(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
	assert.True(t, cookies[0].Secure)
}

func TestRedisStore(t *testing.T) {
	raw := redis.NewClient(&redis.Options{Addr: testutil.RedisAddr(t)})
	client := redisclient.NewClient(raw)
	defer client.Close()
	store := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession("redis-sid"), time.Minute))

	keyTTL, err := raw.TTL(ctx, redisKeyPrefix+"redis-sid").Result()
	require.NoError(t, err)
	assert.Greater(t, keyTTL, time.Minute, "the key outlives the session so expiry is observed")

	got, err := store.Load(ctx, "redis-sid")
	require.NoError(t, err)
	assert.Equal(t, "jwt", got.Token)

	require.NoError(t, store.Save(ctx, sampleSession("forever"), 0))
	keyTTL, err = raw.TTL(ctx, redisKeyPrefix+"forever").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), keyTTL, "ttl 0 keeps the key without expiry")

	existed, err := store.Delete(ctx, "redis-sid")
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = store.Load(ctx, "redis-sid")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}
