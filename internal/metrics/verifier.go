package metrics

import (
	"PlsVerify/internal/model"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	namespace     = "pls_verify"
)

// Verifier 验证运行指标；nil 时所有方法为空操作
type Verifier struct {
	runs       *prometheus.CounterVec
	tickets    prometheus.Counter
	winning    *prometheus.CounterVec
	lastPayout prometheus.Gauge
}

// NewVerifier 创建并注册到给定的 registry
func NewVerifier(reg prometheus.Registerer) (*Verifier, error) {
	v := &Verifier{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Verification runs by result (success or error kind).",
		}, []string{"result"}),
		tickets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_total",
			Help:      "Recommended tickets evaluated.",
		}),
		winning: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "winning_tickets_total",
			Help:      "Winning tickets by prize tier.",
		}, []string{"tier"}),
		lastPayout: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_payout",
			Help:      "Total payout of the most recent successful run.",
		}),
	}
	for _, c := range []prometheus.Collector{v.runs, v.tickets, v.winning, v.lastPayout} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// ObserveOutcome 记录一次成功评估
func (v *Verifier) ObserveOutcome(rec *model.OutcomeRecord) {
	if v == nil || rec == nil {
		return
	}
	v.runs.WithLabelValues(ResultSuccess).Inc()
	v.tickets.Add(float64(rec.TicketCount))
	for tier, n := range rec.TierCounts {
		v.winning.WithLabelValues(TierLabel(tier)).Add(float64(n))
	}
	v.lastPayout.Set(float64(rec.TotalPayout))
}

// ObserveFailure 记录一次失败评估
func (v *Verifier) ObserveFailure(kind model.ErrorKind) {
	if v == nil {
		return
	}
	v.runs.WithLabelValues(string(kind)).Inc()
}

// TierLabel 奖级的英文标签
func TierLabel(tier model.PrizeTier) string {
	switch tier {
	case model.TierExact:
		return "exact"
	case model.TierGroup3:
		return "group3"
	case model.TierGroup6:
		return "group6"
	default:
		return "none"
	}
}
