package tracker

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// sessionStorageKey 对应浏览器 sessionStorage 中的键名。
const sessionStorageKey = "analytics_session_id"

// Storage 抽象标签页级别的持久存储（浏览器里的 sessionStorage）：
// 同一标签页内跨页面导航共享，标签页之间彼此隔离。
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryStorage 是 Storage 的内存实现。
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStorage 创建空的内存存储。
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get 返回键对应的值及其是否存在。
func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok
}

// Set 写入键值。
func (s *MemoryStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// sessionID 返回当前会话标识，首次调用时生成并持久化复用。
// 标识由高精度时间戳加随机后缀构成，在存储被清空前保持稳定。
func (t *Tracker) sessionID() string {
	if id, ok := t.storage.Get(sessionStorageKey); ok && id != "" {
		return id
	}

	id := fmt.Sprintf("%d-%s", t.now().UnixNano(), uuid.NewString()[:8])
	t.storage.Set(sessionStorageKey, id)
	return id
}
