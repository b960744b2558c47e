package report

import (
	"fmt"
	"regexp"

	"PlsVerify/internal/interfaces"
	"PlsVerify/internal/model"

	"github.com/go-playground/validator/v10"
)

// SchemaVersion 当前支持的报告结构版本
const SchemaVersion = 1

// Report 从分析报告正文解析出的结构
type Report struct {
	SchemaVersion int            `validate:"eq=1"`
	CutoffPeriod  string         `validate:"omitempty,numeric"`
	Tickets       []model.Ticket `validate:"dive,dive,min=0,max=9"`
}

// Parser 报告解析器：截止期标记 + 可替换的号码提取器
type Parser struct {
	cutoff    *regexp.Regexp
	extractor interfaces.TicketExtractor
	validate  *validator.Validate
}

// NewParser 创建解析器
func NewParser(cutoffPattern string, extractor interfaces.TicketExtractor) (*Parser, error) {
	re, err := regexp.Compile(cutoffPattern)
	if err != nil {
		return nil, fmt.Errorf("截止期规则无效: %w", err)
	}
	if re.NumSubexp() == 0 {
		return nil, fmt.Errorf("截止期规则缺少捕获组: %s", cutoffPattern)
	}
	return &Parser{cutoff: re, extractor: extractor, validate: validator.New()}, nil
}

// CutoffPeriod 提取报告声明的数据截止期
func (p *Parser) CutoffPeriod(content string) (string, bool) {
	m := p.cutoff.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	period := firstGroup(m)
	return period, period != ""
}

// Tickets 提取推荐号码
func (p *Parser) Tickets(content string) []model.Ticket {
	return p.extractor.Extract(content)
}

// Parse 解析并做结构校验；没有号码不算结构错误，由调用方决定
func (p *Parser) Parse(content string) (*Report, error) {
	cutoff, _ := p.CutoffPeriod(content)
	r := &Report{
		SchemaVersion: SchemaVersion,
		CutoffPeriod:  cutoff,
		Tickets:       p.Tickets(content),
	}
	if err := p.validate.Struct(r); err != nil {
		return nil, fmt.Errorf("报告结构校验失败: %w", err)
	}
	return r, nil
}
