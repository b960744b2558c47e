package report

import (
	"fmt"
	"regexp"

	"PlsVerify/internal/interfaces"
	"PlsVerify/internal/model"
)

// RegexExtractor 以正则匹配 "注 N: [...]" 片段提取号码
type RegexExtractor struct {
	pattern *regexp.Regexp
}

var _ interfaces.TicketExtractor = (*RegexExtractor)(nil)

// NewRegexExtractor 编译号码匹配规则，方括号内容须在第一个非空捕获组中
func NewRegexExtractor(pattern string) (*RegexExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("推荐号码规则无效: %w", err)
	}
	if re.NumSubexp() == 0 {
		return nil, fmt.Errorf("推荐号码规则缺少捕获组: %s", pattern)
	}
	return &RegexExtractor{pattern: re}, nil
}

// Extract 逐个取出方括号内的单个数字字符，恰好 3 个才算一注
func (e *RegexExtractor) Extract(content string) []model.Ticket {
	tickets := make([]model.Ticket, 0)
	for _, m := range e.pattern.FindAllStringSubmatch(content, -1) {
		digits := singleDigits(firstGroup(m))
		if len(digits) != 3 {
			continue
		}
		t := model.Ticket{digits[0], digits[1], digits[2]}
		if !t.Valid() {
			continue
		}
		tickets = append(tickets, t)
	}
	return tickets
}

func singleDigits(s string) []int {
	var out []int
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, int(r-'0'))
		}
	}
	return out
}

// firstGroup 返回第一个非空捕获组，兼容带多个分支的规则
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
