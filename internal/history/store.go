// Package history 解析开奖数据CSV，提供期号到开奖号码的映射与按数值升序的期号列表。
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"PlsVerify/internal/model"
	"PlsVerify/internal/utils/textio"

	"github.com/sirupsen/logrus"
)

var periodPattern = regexp.MustCompile(`^\d{4,7}$`)

// Store 一次运行内的开奖历史，解析后只读
type Store struct {
	draws   map[string]model.DrawRecord
	periods []string // 按期号数值升序，无重复
}

// Load 读取并解析开奖数据文件
func Load(reader *textio.Reader, path string, logger *logrus.Logger) (*Store, error) {
	content, err := reader.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrDatasetUnreadable, path, err)
	}
	return Parse(content, logger)
}

// Parse 解析CSV文本：首行为表头，格式不符的行跳过并告警
func Parse(content string, logger *logrus.Logger) (*Store, error) {
	if strings.TrimSpace(content) == "" {
		logger.Warn(model.ErrEmptyInput.Error())
		return nil, model.ErrEmptyInput
	}

	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	s := &Store{draws: make(map[string]model.DrawRecord)}
	for line := 1; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if line == 1 {
			// 跳过表头
			continue
		}
		if err != nil {
			logger.WithError(err).WithField("line", line).Warn("CSV行无法解析，已跳过")
			continue
		}
		record, ok := parseRow(row)
		if !ok {
			logger.WithFields(logrus.Fields{"line": line, "row": row}).Warn("CSV文件数据格式无效，已跳过")
			continue
		}
		if _, exists := s.draws[record.Period]; !exists {
			s.periods = append(s.periods, record.Period)
		}
		s.draws[record.Period] = record
	}

	if len(s.draws) == 0 {
		logger.Warn(model.ErrNoValidRecords.Error())
		return nil, model.ErrNoValidRecords
	}

	SortPeriods(s.periods)
	return s, nil
}

// SortPeriods 按期号数值升序原地排序（不是字典序），数值相同保持原顺序
func SortPeriods(periods []string) {
	sort.SliceStable(periods, func(i, j int) bool {
		return periodValue(periods[i]) < periodValue(periods[j])
	})
}

func parseRow(row []string) (model.DrawRecord, bool) {
	if len(row) < 4 {
		return model.DrawRecord{}, false
	}
	period := strings.TrimSpace(row[0])
	if !periodPattern.MatchString(period) {
		return model.DrawRecord{}, false
	}
	var digits model.Digits
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(row[i+1]))
		if err != nil {
			return model.DrawRecord{}, false
		}
		digits[i] = n
	}
	if !digits.Valid() {
		return model.DrawRecord{}, false
	}
	return model.DrawRecord{Period: period, Numbers: digits}, true
}

func periodValue(p string) int64 {
	v, _ := strconv.ParseInt(p, 10, 64)
	return v
}

// Periods 返回按数值升序的期号副本
func (s *Store) Periods() []string {
	out := make([]string, len(s.periods))
	copy(out, s.periods)
	return out
}

// Len 有效期数
func (s *Store) Len() int { return len(s.periods) }

// Draw 查询某期开奖
func (s *Store) Draw(period string) (model.DrawRecord, bool) {
	d, ok := s.draws[period]
	return d, ok
}

// Latest 最新一期
func (s *Store) Latest() (model.DrawRecord, bool) {
	if len(s.periods) == 0 {
		return model.DrawRecord{}, false
	}
	return s.draws[s.periods[len(s.periods)-1]], true
}

// EvalAndCutoff 最新期为评估期，倒数第二期为报告数据截止期
func (s *Store) EvalAndCutoff() (evalPeriod, cutoffPeriod string, err error) {
	if len(s.periods) < 2 {
		return "", "", model.ErrInsufficientPeriods
	}
	n := len(s.periods)
	return s.periods[n-1], s.periods[n-2], nil
}
