package service

import "fmt"

// State 一次验证运行所处的阶段
type State string

const (
	StateReadHistory         State = "READ_HISTORY"
	StateDetermineEvalPeriod State = "DETERMINE_EVAL_PERIOD"
	StateLocateReport        State = "LOCATE_REPORT"
	StateExtractTickets      State = "EXTRACT_TICKETS"
	StateEvaluate            State = "EVALUATE"
	StatePersist             State = "PERSIST"
	StateDone                State = "DONE"
	StateFailed              State = "FAILED"
)

// IsTerminal DONE 与 FAILED 为终态
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// Label 阶段中文名，用于错误信息
func (s State) Label() string {
	switch s {
	case StateReadHistory:
		return "读取开奖数据"
	case StateDetermineEvalPeriod:
		return "确定评估期"
	case StateLocateReport:
		return "查找分析报告"
	case StateExtractTickets:
		return "解析推荐号码"
	case StateEvaluate:
		return "计算中奖情况"
	case StatePersist:
		return "更新主报告"
	case StateDone:
		return "完成"
	case StateFailed:
		return "失败"
	default:
		return string(s)
	}
}

// next 成功路径上的下一阶段
var next = map[State]State{
	StateReadHistory:         StateDetermineEvalPeriod,
	StateDetermineEvalPeriod: StateLocateReport,
	StateLocateReport:        StateExtractTickets,
	StateExtractTickets:      StateEvaluate,
	StateEvaluate:            StatePersist,
	StatePersist:             StateDone,
}

// Transition 校验并返回目标阶段；任一非终态都可以转入 FAILED
func Transition(from, to State) (State, error) {
	if from.IsTerminal() {
		return from, fmt.Errorf("终态 %s 不能再转换到 %s", from, to)
	}
	if to == StateFailed || next[from] == to {
		return to, nil
	}
	return from, fmt.Errorf("非法的阶段转换: %s -> %s", from, to)
}
