package repository

import (
	"context"
	"fmt"

	"PlsVerify/internal/interfaces"
	"PlsVerify/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// rotateLockKey postgres 事务级咨询锁，串行化并发的轮转写入
const rotateLockKey = 0x504c53

type GormBlockStore struct {
	db *gorm.DB
}

func NewGormBlockStore(db *gorm.DB) interfaces.BlockStore {
	return &GormBlockStore{db: db}
}

// Rotate 插入新块并按类型裁剪旧块，同一事务内完成
func (r *GormBlockStore) Rotate(ctx context.Context, block *model.LogBlock, keep model.Retention) error {
	// 开启事务
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if tx.Dialector.Name() == "postgres" {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", rotateLockKey).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("获取轮转锁失败: %w", err)
		}
	}

	// 1. 保存新块
	if block.BlockUUID == "" {
		block.BlockUUID = uuid.NewString()
	}
	if block.Kind == "" {
		block.Kind = model.ClassifyBody(block.Body)
	}
	if err := tx.Create(block).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("保存日志块失败: %w, kind: %s", err, block.Kind)
	}

	// 2. 各类型只保留最新的若干块
	for _, kind := range []model.BlockKind{model.BlockOutcome, model.BlockError} {
		limit := keep.Limit(kind)
		if limit <= 0 {
			continue
		}
		var ids []uint64
		if err := tx.Model(&model.LogBlock{}).
			Where("kind = ?", kind).
			Order("id DESC").
			Pluck("id", &ids).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("查询日志块失败: %w, kind: %s", err, kind)
		}
		if len(ids) <= limit {
			continue
		}
		if err := tx.Where("id IN ?", ids[limit:]).Delete(&model.LogBlock{}).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("裁剪日志块失败: %w, kind: %s", err, kind)
		}
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// List 最新在前
func (r *GormBlockStore) List(ctx context.Context, kind model.BlockKind) ([]model.LogBlock, error) {
	db := r.db.WithContext(ctx).Model(&model.LogBlock{})
	if kind != "" {
		db = db.Where("kind = ?", kind)
	}
	var blocks []model.LogBlock
	if err := db.Order("id DESC").Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}
