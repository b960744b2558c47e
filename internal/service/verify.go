package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"PlsVerify/internal/config"
	"PlsVerify/internal/history"
	"PlsVerify/internal/interfaces"
	"PlsVerify/internal/metrics"
	"PlsVerify/internal/model"
	"PlsVerify/internal/prize"
	"PlsVerify/internal/report"
	"PlsVerify/internal/utils/textio"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RunResult 一次验证运行的结果，Outcome 与 Failure 二者恰有其一
type RunResult struct {
	RunID   string               `json:"run_id"`
	State   State                `json:"state"`
	Outcome *model.OutcomeRecord `json:"outcome,omitempty"`
	Failure *model.ErrorRecord   `json:"failure,omitempty"`
	Report  *report.Candidate    `json:"report,omitempty"`
}

// VerifyService 排列三推荐结果验证流程
type VerifyService struct {
	cfg     *config.Config
	reader  *textio.Reader
	parser  *report.Parser
	locator *report.Locator
	engine  *prize.Engine
	writer  *ReportWriter
	metrics *metrics.Verifier
	logger  *logrus.Logger
	now     func() time.Time
}

func NewVerifyService(cfg *config.Config, store interfaces.BlockStore, m *metrics.Verifier, logger *logrus.Logger) (*VerifyService, error) {
	reader := textio.NewReader(cfg.Report.Encodings, logger)
	extractor, err := report.NewRegexExtractor(cfg.Report.TicketPattern)
	if err != nil {
		return nil, err
	}
	parser, err := report.NewParser(cfg.Report.CutoffPattern, extractor)
	if err != nil {
		return nil, err
	}
	return &VerifyService{
		cfg:     cfg,
		reader:  reader,
		parser:  parser,
		locator: report.NewLocator(cfg.Paths.BaseDir, cfg.Paths.ReportPattern, reader, parser, logger),
		engine:  prize.NewEngine(cfg.Prize.Table()),
		writer:  NewReportWriter(store, cfg.Retention.Retention(), logger),
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Locator 报告定位器，供服务模式查询候选报告
func (s *VerifyService) Locator() *report.Locator { return s.locator }

// run 单次运行的中间数据
type run struct {
	history   *history.Store
	evalDraw  model.DrawRecord
	cutoff    string
	candidate report.Candidate
	tickets   []model.Ticket
	result    *prize.Result
	outcome   *model.OutcomeRecord
}

// Run 执行一次验证。业务失败记为错误块并返回 FAILED 结果，不作为 error 返回；
// 只有错误块本身写不进主报告时才返回 error。
func (s *VerifyService) Run(ctx context.Context) (*RunResult, error) {
	res := &RunResult{RunID: uuid.NewString(), State: StateReadHistory}
	logger := s.logger.WithField("run_id", res.RunID)
	logger.Info("开始排列三推荐结果验证...")

	r := &run{}
	var failure error
	for !res.State.IsTerminal() {
		if err := ctx.Err(); err != nil {
			failure = model.NewVerifyError(model.KindInputMissing, res.State.Label(), err)
		} else {
			failure = s.step(ctx, res.State, r, logger)
		}
		to := next[res.State]
		if failure != nil {
			to = StateFailed
		}
		state, err := Transition(res.State, to)
		if err != nil {
			return nil, err
		}
		res.State = state
	}

	if res.State == StateFailed {
		return res, s.fail(ctx, res, failure, logger)
	}

	res.Outcome = r.outcome
	res.Report = &r.candidate
	s.metrics.ObserveOutcome(r.outcome)
	logger.Infof("验证完成！推荐%d注，中奖%d注，总奖金%d元", r.outcome.TicketCount, r.outcome.WinningCount, r.outcome.TotalPayout)
	if r.outcome.WinningCount > 0 {
		logger.Info("中奖详情:")
		for _, line := range r.outcome.DetailLines {
			logger.Infof("  %s", line)
		}
	}
	return res, nil
}

func (s *VerifyService) step(ctx context.Context, state State, r *run, logger *logrus.Entry) error {
	stage := state.Label()
	switch state {
	case StateReadHistory:
		store, err := history.Load(s.reader, s.cfg.Paths.Resolve(s.cfg.Paths.CSVFile), s.logger)
		if err != nil {
			return model.NewVerifyError(model.KindOf(err), stage, err)
		}
		r.history = store
		logger.WithField("periods", store.Len()).Info("开奖数据读取完成")

	case StateDetermineEvalPeriod:
		evalPeriod, cutoff, err := r.history.EvalAndCutoff()
		if err != nil {
			return model.NewVerifyError(model.KindInsufficientData, stage, err)
		}
		draw, _ := r.history.Draw(evalPeriod)
		r.evalDraw = draw
		r.cutoff = cutoff
		logger.Infof("评估期: %s, 数据截止期: %s", evalPeriod, cutoff)

	case StateLocateReport:
		candidate, err := s.locator.FindReport(r.cutoff)
		if err != nil {
			return model.NewVerifyError(model.KindParseFailure, stage, err)
		}
		r.candidate = candidate

	case StateExtractTickets:
		content, err := s.reader.ReadFile(r.candidate.Path)
		if err != nil {
			err = fmt.Errorf("%w: %s: %v", model.ErrReportUnreadable, r.candidate.Name, err)
			return model.NewVerifyError(model.KindInputMissing, stage, err)
		}
		parsed, err := s.parser.Parse(content)
		if err != nil {
			return model.NewVerifyError(model.KindParseFailure, stage, err)
		}
		if len(parsed.Tickets) == 0 {
			return model.NewVerifyError(model.KindParseFailure, stage, model.ErrNoTickets)
		}
		r.tickets = parsed.Tickets
		logger.WithFields(logrus.Fields{"report": r.candidate.Name, "tickets": len(r.tickets)}).Info("推荐号码解析完成")

	case StateEvaluate:
		logger.Infof("第%s期开奖号码: %s", r.evalDraw.Period, r.evalDraw.Numbers)
		r.result = s.engine.Evaluate(r.tickets, r.evalDraw.Numbers)
		r.outcome = &model.OutcomeRecord{
			Timestamp:    s.now(),
			Period:       r.evalDraw.Period,
			CutoffPeriod: r.cutoff,
			ReportFile:   r.candidate.Name,
			Numbers:      r.evalDraw.Numbers,
			TicketCount:  len(r.tickets),
			WinningCount: r.result.WinningCount(),
			TotalPayout:  r.result.TotalPayout,
			TierCounts:   r.result.TierCounts,
			Details:      r.result.Details,
			DetailLines:  prize.FormatDetails(r.result.Details, r.evalDraw.Numbers),
		}

	case StatePersist:
		if err := s.writer.WriteOutcome(ctx, r.outcome); err != nil {
			return model.NewVerifyError(model.KindInputMissing, stage, err)
		}
	}
	return nil
}

// fail 记录失败：控制台输出错误与调用栈，并把错误块写入主报告
func (s *VerifyService) fail(ctx context.Context, res *RunResult, cause error, logger *logrus.Entry) error {
	kind := model.KindOf(cause)
	msg := fmt.Sprintf("验证过程发生错误: %v", cause)
	logger.WithField("kind", kind).Error(msg)
	logger.Debugf("%s", debug.Stack())

	res.Failure = &model.ErrorRecord{Timestamp: s.now(), Kind: kind, Message: msg}
	s.metrics.ObserveFailure(kind)

	// 取消的上下文仍需写入错误块
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}
	return s.writer.WriteError(ctx, res.Failure)
}
