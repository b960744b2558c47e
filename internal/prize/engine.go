// Package prize 排列三中奖判定与奖金计算。
//
// 判定顺序：顺序完全一致为直选；否则比较去重后的数字集合，集合相同时按推荐号码自身
// 是否三个数字各不相同区分组选6与组选3，与开奖号码的重复情况无关。
package prize

import (
	"fmt"

	"PlsVerify/internal/model"
)

// Result 一组推荐号码的评估结果
type Result struct {
	TotalPayout int
	TierCounts  map[model.PrizeTier]int
	Details     []model.WinningDetail // 按推荐顺序
}

// WinningCount 中奖注数
func (r *Result) WinningCount() int { return len(r.Details) }

// Engine 奖金计算器
type Engine struct {
	table model.PrizeTable
}

// NewEngine 创建计算器；table 为空时使用默认奖金表
func NewEngine(table model.PrizeTable) *Engine {
	if len(table) == 0 {
		table = model.DefaultPrizeTable
	}
	return &Engine{table: table}
}

// Classify 判定单注奖级
func Classify(ticket model.Ticket, draw model.Digits) model.PrizeTier {
	if ticket == draw {
		return model.TierExact
	}
	ticketSet := digitSet(ticket)
	if !sameSet(ticketSet, digitSet(draw)) {
		return model.TierNone
	}
	if len(ticketSet) == 3 {
		return model.TierGroup6
	}
	return model.TierGroup3
}

// Amount 奖级对应奖金
func (e *Engine) Amount(tier model.PrizeTier) int {
	if tier == model.TierNone {
		return 0
	}
	return e.table[tier]
}

// Evaluate 核对全部推荐号码
func (e *Engine) Evaluate(tickets []model.Ticket, draw model.Digits) *Result {
	res := &Result{
		TierCounts: make(map[model.PrizeTier]int),
		Details:    make([]model.WinningDetail, 0),
	}
	for i, t := range tickets {
		tier := Classify(t, draw)
		if tier == model.TierNone {
			continue
		}
		amount := e.Amount(tier)
		res.TotalPayout += amount
		res.TierCounts[tier]++
		res.Details = append(res.Details, model.WinningDetail{
			TicketID: i + 1,
			Numbers:  t,
			Tier:     tier,
			Amount:   amount,
		})
	}
	return res
}

// NoWinLine 未中奖时的说明行
const NoWinLine = "本期推荐号码未中奖。"

// FormatDetails 格式化中奖详情行；未中奖时只有一行说明
func FormatDetails(details []model.WinningDetail, draw model.Digits) []string {
	if len(details) == 0 {
		return []string{NoWinLine}
	}
	lines := []string{fmt.Sprintf("开奖号码: %s", draw), ""}
	for _, d := range details {
		lines = append(lines, fmt.Sprintf("第%d注: %s - %s - %d元", d.TicketID, d.Numbers, d.Tier, d.Amount))
	}
	return lines
}

func digitSet(d model.Digits) map[int]struct{} {
	set := make(map[int]struct{}, 3)
	for _, n := range d {
		set[n] = struct{}{}
	}
	return set
}

func sameSet(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
