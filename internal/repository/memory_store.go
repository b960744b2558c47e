package repository

import (
	"context"
	"sync"

	"PlsVerify/internal/interfaces"
	"PlsVerify/internal/model"

	"github.com/google/uuid"
)

// MemoryBlockStore 内存实现，供测试使用
type MemoryBlockStore struct {
	mu     sync.RWMutex
	blocks []model.LogBlock // 最新在前
	nextID uint64
}

var _ interfaces.BlockStore = (*MemoryBlockStore)(nil)

func NewMemoryBlockStore() *MemoryBlockStore {
	return &MemoryBlockStore{}
}

func (s *MemoryBlockStore) Rotate(ctx context.Context, block *model.LogBlock, keep model.Retention) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	block.ID = s.nextID
	if block.BlockUUID == "" {
		block.BlockUUID = uuid.NewString()
	}
	if block.Kind == "" {
		block.Kind = model.ClassifyBody(block.Body)
	}
	blocks := append([]model.LogBlock{*block}, s.blocks...)
	s.blocks = model.TrimBlocks(blocks, keep)
	return nil
}

func (s *MemoryBlockStore) List(ctx context.Context, kind model.BlockKind) ([]model.LogBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.LogBlock, 0, len(s.blocks))
	for _, b := range s.blocks {
		if kind == "" || b.Kind == kind {
			out = append(out, b)
		}
	}
	return out, nil
}
