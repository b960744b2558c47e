package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"PlsVerify/internal/interfaces"
	"PlsVerify/internal/model"
	"PlsVerify/internal/utils/textio"

	"github.com/sirupsen/logrus"
)

// FileBlockStore 纯文本主报告，读改写在进程内互斥，写入经临时文件原子替换
type FileBlockStore struct {
	mu     sync.Mutex
	path   string
	reader *textio.Reader
	logger *logrus.Logger
}

var _ interfaces.BlockStore = (*FileBlockStore)(nil)

func NewFileBlockStore(path string, reader *textio.Reader, logger *logrus.Logger) *FileBlockStore {
	return &FileBlockStore{path: path, reader: reader, logger: logger}
}

// Path 主报告文件路径
func (s *FileBlockStore) Path() string { return s.path }

func (s *FileBlockStore) Rotate(ctx context.Context, block *model.LogBlock, keep model.Retention) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	if block.Kind == "" {
		block.Kind = model.ClassifyBody(block.Body)
	}
	blocks := append([]model.LogBlock{*block}, existing...)
	return s.write(model.RenderBlocks(model.TrimBlocks(blocks, keep)))
}

func (s *FileBlockStore) List(ctx context.Context, kind model.BlockKind) ([]model.LogBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	blocks, err := s.load()
	if err != nil {
		return nil, err
	}
	if kind == "" {
		return blocks, nil
	}
	filtered := make([]model.LogBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Kind == kind {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

// Replace 用给定块整体覆盖文件
func (s *FileBlockStore) Replace(blocks []model.LogBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(model.RenderBlocks(blocks))
}

// load 文件不存在视为空；无法解码时告警并按空处理
func (s *FileBlockStore) load() ([]model.LogBlock, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	content, err := s.reader.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, textio.ErrUndecodable) {
			s.logger.WithError(err).WithField("file", s.path).Warn("主报告无法解码，按空文件处理")
			return nil, nil
		}
		return nil, err
	}
	return model.SplitBlocks(content), nil
}

func (s *FileBlockStore) write(content string) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".pls-report-*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("写入报告文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("写入报告文件失败: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("替换报告文件失败: %w", err)
	}
	s.logger.WithField("file", s.path).Info("报告已更新")
	return nil
}
