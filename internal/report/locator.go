package report

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"PlsVerify/internal/model"
	"PlsVerify/internal/utils/textio"

	"github.com/sirupsen/logrus"
)

const timestampLayout = "20060102_150405"

var timestampPattern = regexp.MustCompile(`_(\d{8}_\d{6})\.txt$`)

// Candidate 数据截止期匹配的候选报告
type Candidate struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	CutoffPeriod string    `json:"cutoff_period"`
	Timestamp    time.Time `json:"timestamp"`
}

// Locator 在工作目录中查找分析报告
type Locator struct {
	dir     string
	pattern string
	reader  *textio.Reader
	parser  *Parser
	logger  *logrus.Logger
}

// NewLocator 创建报告定位器
func NewLocator(dir, pattern string, reader *textio.Reader, parser *Parser, logger *logrus.Logger) *Locator {
	return &Locator{dir: dir, pattern: pattern, reader: reader, parser: parser, logger: logger}
}

// Candidates 返回截止期等于 targetPeriod 且文件名时间戳可解析的报告，最新在前
func (l *Locator) Candidates(targetPeriod string) ([]Candidate, error) {
	matches, err := filepath.Glob(filepath.Join(l.dir, l.pattern))
	if err != nil {
		return nil, fmt.Errorf("报告文件模式无效 %s: %w", l.pattern, err)
	}

	var candidates []Candidate
	for _, path := range matches {
		content, err := l.reader.ReadFile(path)
		if err != nil {
			l.logger.WithError(err).WithField("file", path).Warn("报告无法读取，已跳过")
			continue
		}
		cutoff, ok := l.parser.CutoffPeriod(content)
		if !ok || cutoff != targetPeriod {
			continue
		}
		ts, ok := ParseTimestamp(filepath.Base(path))
		if !ok {
			l.logger.WithField("file", path).Debug("报告文件名缺少有效时间戳，已跳过")
			continue
		}
		candidates = append(candidates, Candidate{
			Path:         path,
			Name:         filepath.Base(path),
			CutoffPeriod: cutoff,
			Timestamp:    ts,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].Timestamp.Equal(candidates[j].Timestamp) {
			return candidates[i].Timestamp.After(candidates[j].Timestamp)
		}
		return candidates[i].Name > candidates[j].Name
	})
	return candidates, nil
}

// FindReport 返回截止期匹配的最新报告
func (l *Locator) FindReport(targetPeriod string) (Candidate, error) {
	l.logger.Infof("正在查找数据截止期为 %s 的分析报告...", targetPeriod)
	candidates, err := l.Candidates(targetPeriod)
	if err != nil {
		return Candidate{}, err
	}
	if len(candidates) == 0 {
		l.logger.Warnf("未找到数据截止期为 %s 的分析报告", targetPeriod)
		return Candidate{}, fmt.Errorf("%w: 数据截止期 %s", model.ErrReportNotFound, targetPeriod)
	}
	latest := candidates[0]
	l.logger.WithField("file", latest.Name).Info("找到匹配的最新报告")
	return latest, nil
}

// ParseTimestamp 解析文件名末尾的 _YYYYMMDD_HHMMSS.txt
func ParseTimestamp(name string) (time.Time, bool) {
	m := timestampPattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(timestampLayout, m[1], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
