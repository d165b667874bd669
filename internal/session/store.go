package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/S-4-Sidra/heart-disease/internal/domain"
	"github.com/S-4-Sidra/heart-disease/internal/store"

	"go.uber.org/zap"
)

// Store 会话存储
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory; idle sessions expire after ttl
// (ttl <= 0 disables expiry).
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryItem
	ttl      time.Duration
	now      func() time.Time
}

type memoryItem struct {
	s        *Session
	lastSeen time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: map[string]*memoryItem{},
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context) (*Session, error) {
	s := New()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &memoryItem{s: s, lastSeen: m.now()}
	return s, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if m.expired(item) {
		delete(m.sessions, id)
		return nil, domain.ErrSessionNotFound
	}
	item.lastSeen = m.now()
	return item.s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &memoryItem{s: s, lastSeen: m.now()}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) expired(item *memoryItem) bool {
	return m.ttl > 0 && m.now().Sub(item.lastSeen) > m.ttl
}

// Sweep 删除所有空闲超过 ttl 的会话，返回删除数量
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, item := range m.sessions {
		if m.expired(item) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper 按 interval 定时清理过期会话，ctx 取消时返回
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Starting session sweeper",
		zap.Duration("interval", interval),
		zap.Duration("ttl", m.ttl),
	)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				logger.Debug("Expired sessions removed", zap.Int("count", n), zap.Int("remaining", m.Len()))
			}
		}
	}
}

// Len 当前会话数
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

const keyPrefix = "heartguard:session:"

// RedisStore 以 JSON 快照形式把会话放在 Redis（空闲 TTL，不做持久化）
type RedisStore struct {
	kv  store.KV
	ttl time.Duration
}

func NewRedisStore(kv store.KV, ttl time.Duration) *RedisStore {
	return &RedisStore{kv: kv, ttl: ttl}
}

func (r *RedisStore) Create(ctx context.Context) (*Session, error) {
	s := New()
	if err := r.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.kv.Get(ctx, keyPrefix+id)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	// 与 MemoryStore 一致：访问即续期
	if r.ttl > 0 {
		if err := r.kv.Expire(ctx, keyPrefix+id, r.ttl); err != nil && !errors.Is(err, store.ErrMiss) {
			return nil, fmt.Errorf("failed to refresh session ttl: %w", err)
		}
	}
	return FromSnapshot(snap), nil
}

// Save 写入快照并刷新 TTL
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.kv.Set(ctx, keyPrefix+s.ID, string(raw), r.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.kv.Del(ctx, keyPrefix+id)
}
