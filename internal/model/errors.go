package model

import (
	"errors"
	"fmt"
)

// ErrorKind 验证失败的分类
type ErrorKind string

const (
	KindInputMissing     ErrorKind = "input_missing"     // 数据文件或报告缺失/无法解码
	KindParseFailure     ErrorKind = "parse_failure"     // 无有效开奖数据、无匹配报告、无推荐号码
	KindInsufficientData ErrorKind = "insufficient_data" // 期数不足 2 期
)

var (
	ErrEmptyInput          = errors.New("输入的CSV内容为空")
	ErrNoValidRecords      = errors.New("未能从CSV中解析到任何有效的开奖数据")
	ErrInsufficientPeriods = errors.New("数据不足，至少需要2期数据")
	ErrDatasetUnreadable   = errors.New("无法读取数据文件")
	ErrReportNotFound      = errors.New("未找到匹配的分析报告")
	ErrReportUnreadable    = errors.New("无法读取报告文件")
	ErrNoTickets           = errors.New("报告中未找到有效的推荐号码")
)

// VerifyError 带分类与所在阶段的验证错误
type VerifyError struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *VerifyError) Unwrap() error { return e.Err }

// NewVerifyError 包装底层错误
func NewVerifyError(kind ErrorKind, stage string, err error) *VerifyError {
	return &VerifyError{Kind: kind, Stage: stage, Err: err}
}

// KindOf 返回错误链上第一个 VerifyError 的分类；没有时按哨兵错误推断
func KindOf(err error) ErrorKind {
	var ve *VerifyError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	switch {
	case errors.Is(err, ErrEmptyInput), errors.Is(err, ErrDatasetUnreadable), errors.Is(err, ErrReportUnreadable):
		return KindInputMissing
	case errors.Is(err, ErrInsufficientPeriods):
		return KindInsufficientData
	default:
		return KindParseFailure
	}
}
