package history

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"PlsVerify/internal/model"
	"PlsVerify/internal/utils/textio"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestParse_SkipsInvalidRows(t *testing.T) {
	content := "期号,百位,十位,个位,日期\n" +
		"2025100,1,2,3,2025-04-01\n" +
		"2025101,4,5,6\n" +
		"abc,1,2,3\n" + // 期号非数字
		"123,1,2,3\n" + // 期号位数不足
		"20251020,1,2,3\n" + // 期号位数过多
		"2025103,1,2\n" + // 字段不足
		"2025104,1,x,3\n" + // 非整数
		"2025105,1,10,3\n" + // 超出范围
		"2025106,-1,0,3\n" +
		"2025107, 7 , 8 ,9\n"

	s, err := Parse(content, testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"2025100", "2025101", "2025107"}, s.Periods())

	d, ok := s.Draw("2025107")
	require.True(t, ok)
	assert.Equal(t, model.Digits{7, 8, 9}, d.Numbers)

	for _, p := range s.Periods() {
		d, _ := s.Draw(p)
		assert.True(t, d.Numbers.Valid(), "period %s", p)
	}
}

func TestParse_NumericOrderAndDuplicates(t *testing.T) {
	content := "period,a,b,c\n" +
		"10000,1,1,1\n" +
		"9999,2,2,2\n" +
		"0100000,3,3,3\n" +
		"9999,4,4,4\n"

	s, err := Parse(content, testLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"9999", "10000", "0100000"}, s.Periods())

	d, _ := s.Draw("9999")
	assert.Equal(t, model.Digits{4, 4, 4}, d.Numbers, "后出现的重复期号覆盖前者")

	latest, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, "0100000", latest.Period)
}

func TestSortPeriods_NumericNotLexicographic(t *testing.T) {
	periods := []string{"100", "99", "1000", "101"}
	SortPeriods(periods)
	assert.Equal(t, []string{"99", "100", "101", "1000"}, periods)
}

func TestParse_Failures(t *testing.T) {
	_, err := Parse("", testLogger())
	assert.ErrorIs(t, err, model.ErrEmptyInput)

	_, err = Parse("  \n\n", testLogger())
	assert.ErrorIs(t, err, model.ErrEmptyInput)

	_, err = Parse("期号,百位,十位,个位\n", testLogger())
	assert.ErrorIs(t, err, model.ErrNoValidRecords)

	_, err = Parse("期号,百位,十位,个位\nfoo,1,2,3\n2025001,1,2\n", testLogger())
	assert.ErrorIs(t, err, model.ErrNoValidRecords)
}

func TestEvalAndCutoff(t *testing.T) {
	s, err := Parse("h\n2025118,1,2,3\n2025119,4,5,6\n", testLogger())
	require.NoError(t, err)

	evalPeriod, cutoff, err := s.EvalAndCutoff()
	require.NoError(t, err)
	assert.Equal(t, "2025119", evalPeriod)
	assert.Equal(t, "2025118", cutoff)

	single, err := Parse("h\n2025118,1,2,3\n", testLogger())
	require.NoError(t, err)
	_, _, err = single.EvalAndCutoff()
	assert.ErrorIs(t, err, model.ErrInsufficientPeriods)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	reader := textio.NewReader(nil, testLogger())

	_, err := Load(reader, filepath.Join(dir, "pls.csv"), testLogger())
	assert.ErrorIs(t, err, model.ErrDatasetUnreadable)

	path := filepath.Join(dir, "pls.csv")
	require.NoError(t, os.WriteFile(path, []byte("期号,百位,十位,个位\n2025001,0,0,9\n"), 0644))
	s, err := Load(reader, path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}
