package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"calibreport/internal/model"
)

// MemoryStore 内存文档存储（单元测试用，不落盘）
type MemoryStore struct {
	docs  map[string]*model.Document
	saves map[string]int
	mu    sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[string]*model.Document),
		saves: make(map[string]int),
	}
}

// Load 读取文档副本
func (s *MemoryStore) Load(_ context.Context, name string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrArtifactNotFound, name)
	}
	return doc.Clone(), nil
}

// Save 保存文档副本并记录写入次数
func (s *MemoryStore) Save(_ context.Context, doc *model.Document) error {
	if doc == nil || doc.Name == "" {
		return fmt.Errorf("document name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[doc.Name] = doc.Clone()
	s.saves[doc.Name]++
	return nil
}

// Exists 文档是否存在
func (s *MemoryStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[name]
	return ok, nil
}

// SaveCount 某文档被写入的次数（用于验证每次修改都立即持久化）
func (s *MemoryStore) SaveCount(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves[name]
}

// Names 已保存的文档名（排序）
func (s *MemoryStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.docs))
	for name := range s.docs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
