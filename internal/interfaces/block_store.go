package interfaces

import (
	"context"

	"PlsVerify/internal/model"
)

// BlockStore 主报告存储后端
type BlockStore interface {
	// Rotate 把新块放到最前并按保留策略裁剪，读改写在同一事务内完成
	Rotate(ctx context.Context, block *model.LogBlock, keep model.Retention) error
	// List 返回最新在前的块；kind 为空时返回全部
	List(ctx context.Context, kind model.BlockKind) ([]model.LogBlock, error)
}
