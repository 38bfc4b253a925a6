package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/blogworks/postapi/internal/cache"
)

// DefaultCursorTTL is how long an idle chat keeps its position in Redis
const DefaultCursorTTL = 7 * 24 * time.Hour

// CursorStore remembers the page each chat is viewing, per list kind.
// A chat that never opened a list is on page 1.
type CursorStore interface {
	Get(ctx context.Context, chatID int64, kind Kind) (int, error)
	Set(ctx context.Context, chatID int64, kind Kind, page int) error
}

type cursorKey struct {
	chatID int64
	kind   Kind
}

// MemoryCursorStore keeps cursors in process memory
type MemoryCursorStore struct {
	mu    sync.RWMutex
	pages map[cursorKey]int
}

// NewMemoryCursorStore creates an empty in-memory store
func NewMemoryCursorStore() *MemoryCursorStore {
	return &MemoryCursorStore{pages: make(map[cursorKey]int)}
}

func (s *MemoryCursorStore) Get(ctx context.Context, chatID int64, kind Kind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if page, ok := s.pages[cursorKey{chatID, kind}]; ok {
		return page, nil
	}
	return 1, nil
}

func (s *MemoryCursorStore) Set(ctx context.Context, chatID int64, kind Kind, page int) error {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.pages[cursorKey{chatID, kind}] = page
	s.mu.Unlock()
	return nil
}

// RedisCursorStore keeps cursors in Redis so they survive restarts and are
// shared between bot replicas
type RedisCursorStore struct {
	client *cache.RedisClient
	ttl    time.Duration
}

// NewRedisCursorStore creates a store on client. A ttl of zero or less uses DefaultCursorTTL.
func NewRedisCursorStore(client *cache.RedisClient, ttl time.Duration) *RedisCursorStore {
	if ttl <= 0 {
		ttl = DefaultCursorTTL
	}
	return &RedisCursorStore{client: client, ttl: ttl}
}

func cursorRedisKey(chatID int64, kind Kind) string {
	return fmt.Sprintf("bot:cursor:%s:%d", kind, chatID)
}

func (s *RedisCursorStore) Get(ctx context.Context, chatID int64, kind Kind) (int, error) {
	raw, err := s.client.Get(ctx, cursorRedisKey(chatID, kind))
	if errors.Is(err, cache.ErrCacheMiss) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cursor: %w", err)
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1, nil
	}
	return page, nil
}

func (s *RedisCursorStore) Set(ctx context.Context, chatID int64, kind Kind, page int) error {
	if page < 1 {
		page = 1
	}
	if err := s.client.SetEx(ctx, cursorRedisKey(chatID, kind), page, s.ttl); err != nil {
		return fmt.Errorf("failed to store cursor: %w", err)
	}
	return nil
}
