package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"PlsVerify/internal/interfaces"
	"PlsVerify/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const timeLayout = "2006-01-02 15:04:05"

// ReportWriter 把评估结果与错误写入主报告，新块在前并按类型限量保留
type ReportWriter struct {
	store  interfaces.BlockStore
	keep   model.Retention
	logger *logrus.Logger
}

func NewReportWriter(store interfaces.BlockStore, keep model.Retention, logger *logrus.Logger) *ReportWriter {
	return &ReportWriter{store: store, keep: keep, logger: logger}
}

// WriteOutcome 写入一次成功评估
func (w *ReportWriter) WriteOutcome(ctx context.Context, rec *model.OutcomeRecord) error {
	details, err := json.Marshal(rec.Details)
	if err != nil {
		return fmt.Errorf("序列化中奖详情失败: %w", err)
	}
	block := &model.LogBlock{
		Kind:        model.BlockOutcome,
		Period:      rec.Period,
		Body:        FormatOutcome(rec),
		TotalPayout: rec.TotalPayout,
		Details:     datatypes.JSON(details),
	}
	if err := w.store.Rotate(ctx, block, w.keep); err != nil {
		return fmt.Errorf("更新主报告失败: %w", err)
	}
	w.logger.WithFields(logrus.Fields{"period": rec.Period, "block": block.BlockUUID}).Info("主报告已更新")
	return nil
}

// WriteError 写入一次失败评估
func (w *ReportWriter) WriteError(ctx context.Context, rec *model.ErrorRecord) error {
	block := &model.LogBlock{
		Kind: model.BlockError,
		Body: FormatError(rec),
	}
	if err := w.store.Rotate(ctx, block, w.keep); err != nil {
		return fmt.Errorf("写入错误记录失败: %w", err)
	}
	w.logger.WithField("kind", rec.Kind).Info("错误记录已写入主报告")
	return nil
}

// FormatOutcome 评估块正文（不含分隔行）
func FormatOutcome(rec *model.OutcomeRecord) string {
	lines := []string{
		fmt.Sprintf("评估时间: %s", rec.Timestamp.Format(timeLayout)),
		fmt.Sprintf("评估期号: %s", rec.Period),
		fmt.Sprintf("开奖号码: %s", rec.Numbers),
		fmt.Sprintf("推荐数量: %d", rec.TicketCount),
		fmt.Sprintf("中奖注数: %d", rec.WinningCount),
		fmt.Sprintf("总奖金: %d元", rec.TotalPayout),
		"",
	}
	lines = append(lines, rec.DetailLines...)
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// FormatError 错误块正文（不含分隔行）
func FormatError(rec *model.ErrorRecord) string {
	return strings.Join([]string{
		fmt.Sprintf("%s %s", model.ErrorPrefix, rec.Timestamp.Format(timeLayout)),
		fmt.Sprintf("错误信息: %s", rec.Message),
	}, "\n")
}
