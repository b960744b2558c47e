package interfaces

import "PlsVerify/internal/model"

// TicketExtractor 从报告正文中提取推荐号码，匹配策略可替换而不影响奖金计算
type TicketExtractor interface {
	// Extract 按出现顺序返回合法的三位号码；没有时返回空切片
	Extract(content string) []model.Ticket
}
