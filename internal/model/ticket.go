package model

// Ticket 一注推荐号码，顺序对直选有效，对组选无关
type Ticket = Digits

// PrizeTier 奖级
type PrizeTier string

const (
	TierNone   PrizeTier = ""
	TierExact  PrizeTier = "直选"
	TierGroup3 PrizeTier = "组选3"
	TierGroup6 PrizeTier = "组选6"
)

// Tiers 按展示顺序列出的中奖奖级
var Tiers = []PrizeTier{TierExact, TierGroup3, TierGroup6}

// PrizeTable 各奖级奖金（元）
type PrizeTable map[PrizeTier]int

// DefaultPrizeTable 排列三固定奖金
var DefaultPrizeTable = PrizeTable{
	TierExact:  1000,
	TierGroup3: 333,
	TierGroup6: 167,
}

// WinningDetail 单注中奖详情
type WinningDetail struct {
	TicketID int       `json:"ticket_id"` // 从 1 开始
	Numbers  Ticket    `json:"numbers"`
	Tier     PrizeTier `json:"prize_level"`
	Amount   int       `json:"amount"`
}
