package model

import "time"

// OutcomeRecord 一次成功评估的结果
type OutcomeRecord struct {
	Timestamp    time.Time         `json:"timestamp"`
	Period       string            `json:"period"`        // 评估期号
	CutoffPeriod string            `json:"cutoff_period"` // 报告数据截止期号
	ReportFile   string            `json:"report_file"`
	Numbers      Digits            `json:"numbers"`
	TicketCount  int               `json:"ticket_count"`
	WinningCount int               `json:"winning_count"`
	TotalPayout  int               `json:"total_payout"`
	TierCounts   map[PrizeTier]int `json:"tier_counts"`
	Details      []WinningDetail   `json:"details"`
	DetailLines  []string          `json:"detail_lines"` // 已格式化的中奖详情行
}

// ErrorRecord 一次失败评估
type ErrorRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
}
