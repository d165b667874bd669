package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/S-4-Sidra/heart-disease/internal/domain"
	"github.com/S-4-Sidra/heart-disease/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleAssessment(p float64, tier domain.Tier) (domain.RiskAssessment, domain.HistoryEntry) {
	now := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
	a := domain.RiskAssessment{
		ID:          "a-" + string(tier),
		Probability: p,
		Tier:        tier,
		Summary:     domain.InputSummary{Age: 50, Sex: "Male"},
		AssessedAt:  now,
	}
	e := domain.HistoryEntry{Timestamp: now, Tier: tier, Probability: p, Age: 50, Sex: domain.SexMale}
	return a, e
}

func TestSession_PublishOverwritesCurrent(t *testing.T) {
	s := New()
	s.Start()
	assert.True(t, s.LoggedIn)
	assert.Equal(t, PageApp, s.Page)

	a1, e1 := sampleAssessment(0.2, domain.TierLow)
	s.Publish(a1, e1)
	a2, e2 := sampleAssessment(0.7, domain.TierHigh)
	s.Publish(a2, e2)

	require.NotNil(t, s.Current)
	assert.Equal(t, a2, *s.Current)
	assert.Equal(t, 2, s.History.Len())

	s.Logout()
	assert.False(t, s.LoggedIn)
	assert.Equal(t, PageWelcome, s.Page)
}

func TestSession_Halt(t *testing.T) {
	s := New()
	assert.NoError(t, s.Halted())

	s.Halt(errors.New("first"))
	s.Halt(errors.New("second"))
	err := s.Halted()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrClassifierFit))
	assert.Contains(t, err.Error(), "first")
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(0)

	s, err := m.Create(ctx)
	require.NoError(t, err)
	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	other, err := m.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, other.ID)
	assert.NotSame(t, s.History, other.History)
	assert.Equal(t, 2, m.Len())

	require.NoError(t, m.Delete(ctx, s.ID))
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	s, err := m.Create(ctx)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	_, err = m.Get(ctx, s.ID)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryStore_SweepRemovesAbandonedSessions(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore(time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		_, err := m.Create(ctx)
		require.NoError(t, err)
	}
	now = now.Add(24 * time.Hour)
	live, err := m.Create(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1000, m.Sweep())
	assert.Equal(t, 1, m.Len())
	_, err = m.Get(ctx, live.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, m.Sweep())
}

func TestMemoryStore_SweepWithoutTTLKeepsEverything(t *testing.T) {
	m := NewMemoryStore(0)
	_, err := m.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, m.Sweep())
	assert.Equal(t, 1, m.Len())
}

func TestMemoryStore_RunSweeper(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	var mu sync.Mutex
	now := time.Now()
	m.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	_, err := m.Create(context.Background())
	require.NoError(t, err)
	mu.Lock()
	now = now.Add(time.Hour)
	mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunSweeper(ctx, 5*time.Millisecond, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(store.NewRedisKV(client), ttl), mr
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	rs, _ := newRedisStore(t, time.Hour)

	s, err := rs.Create(ctx)
	require.NoError(t, err)
	s.Start()
	s.DarkMode = true
	a, e := sampleAssessment(0.45, domain.TierMedium)
	s.Publish(a, e)
	s.Halt(errors.New("fit exploded"))
	require.NoError(t, rs.Save(ctx, s))

	loaded, err := rs.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.True(t, loaded.LoggedIn)
	assert.True(t, loaded.DarkMode)
	require.NotNil(t, loaded.Current)
	assert.Equal(t, domain.TierMedium, loaded.Current.Tier)
	assert.Equal(t, 1, loaded.History.Len())
	assert.True(t, errors.Is(loaded.Halted(), domain.ErrClassifierFit))
}

func TestRedisStore_MissingAndExpired(t *testing.T) {
	ctx := context.Background()
	rs, mr := newRedisStore(t, time.Minute)

	_, err := rs.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	s, err := rs.Create(ctx)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = rs.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	rs, _ := newRedisStore(t, time.Hour)

	s, err := rs.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, rs.Delete(ctx, s.ID))
	_, err = rs.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_GetSlidesTTL(t *testing.T) {
	ctx := context.Background()
	rs, mr := newRedisStore(t, time.Minute)

	s, err := rs.Create(ctx)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		mr.FastForward(40 * time.Second)
		_, err = rs.Get(ctx, s.ID)
		require.NoError(t, err)
	}
	mr.FastForward(61 * time.Second)
	_, err = rs.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
