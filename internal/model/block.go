package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// BlockKind 日志块类型
type BlockKind string

const (
	BlockOutcome BlockKind = "outcome"
	BlockError   BlockKind = "error"
)

const (
	// Separator 块之间的分隔行
	Separator = "============================================================"
	// ErrorPrefix 错误块首行前缀
	ErrorPrefix = "错误时间:"
)

// LogBlock 主报告中的一个记录块，最新的在前
type LogBlock struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	BlockUUID   string         `gorm:"column:block_uuid;type:varchar(64);uniqueIndex;not null;comment:全局唯一ID"`
	Kind        BlockKind      `gorm:"column:kind;type:varchar(16);index;not null;comment:类型：outcome/error"`
	Period      string         `gorm:"column:period;type:varchar(16);comment:评估期号"`
	Body        string         `gorm:"column:body;type:text;not null;comment:块正文（不含分隔行）"`
	TotalPayout int            `gorm:"column:total_payout;default:0;comment:总奖金"`
	Details     datatypes.JSON `gorm:"column:details;comment:中奖详情"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
}

func (LogBlock) TableName() string { return "log_blocks" }

// Retention 各类型块的保留上限
type Retention struct {
	MaxNormal int
	MaxError  int
}

// Limit 返回该类型的保留数，<=0 表示不限
func (r Retention) Limit(kind BlockKind) int {
	if kind == BlockError {
		return r.MaxError
	}
	return r.MaxNormal
}

// ClassifyBody 以首行判断块类型
func ClassifyBody(body string) BlockKind {
	if strings.HasPrefix(strings.TrimLeft(body, "\n"), ErrorPrefix) {
		return BlockError
	}
	return BlockOutcome
}

// RenderBlocks 把块拼回主报告文本，每块以空行、分隔行、空行结尾
func RenderBlocks(blocks []LogBlock) string {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(b.Body)
		sb.WriteString("\n\n")
		sb.WriteString(Separator)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// SplitBlocks 按分隔行切分主报告文本，返回块正文（最新的在前）
func SplitBlocks(content string) []LogBlock {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var blocks []LogBlock
	for _, part := range strings.Split(content, "\n"+Separator+"\n") {
		if strings.HasPrefix(part, Separator+"\n") {
			part = strings.TrimPrefix(part, Separator+"\n")
		}
		body := strings.Trim(part, "\n")
		if strings.TrimSpace(body) == "" || body == Separator {
			continue
		}
		blocks = append(blocks, LogBlock{Kind: ClassifyBody(body), Body: body})
	}
	return blocks
}

// TrimBlocks 按类型分别保留最新的若干块，保持相对顺序
func TrimBlocks(blocks []LogBlock, keep Retention) []LogBlock {
	seen := make(map[BlockKind]int)
	out := make([]LogBlock, 0, len(blocks))
	for _, b := range blocks {
		limit := keep.Limit(b.Kind)
		if limit > 0 && seen[b.Kind] >= limit {
			continue
		}
		seen[b.Kind]++
		out = append(out, b)
	}
	return out
}
