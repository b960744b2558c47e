package repository

import (
	"context"

	"PlsVerify/internal/interfaces"
	"PlsVerify/internal/model"

	"github.com/sirupsen/logrus"
)

// MirroredStore 主存储轮转后把全部块重新渲染到文本主报告
type MirroredStore struct {
	primary interfaces.BlockStore
	mirror  *FileBlockStore
	logger  *logrus.Logger
}

func NewMirroredStore(primary interfaces.BlockStore, mirror *FileBlockStore, logger *logrus.Logger) interfaces.BlockStore {
	return &MirroredStore{primary: primary, mirror: mirror, logger: logger}
}

func (s *MirroredStore) Rotate(ctx context.Context, block *model.LogBlock, keep model.Retention) error {
	if err := s.primary.Rotate(ctx, block, keep); err != nil {
		return err
	}
	blocks, err := s.primary.List(ctx, "")
	if err != nil {
		s.logger.WithError(err).Warn("读取日志块失败，文本主报告未同步")
		return nil
	}
	if err := s.mirror.Replace(blocks); err != nil {
		s.logger.WithError(err).WithField("file", s.mirror.Path()).Warn("文本主报告同步失败")
	}
	return nil
}

func (s *MirroredStore) List(ctx context.Context, kind model.BlockKind) ([]model.LogBlock, error) {
	return s.primary.List(ctx, kind)
}
