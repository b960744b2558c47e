package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBody(t *testing.T) {
	assert.Equal(t, BlockError, ClassifyBody("错误时间: 2025-01-01 00:00:00\n错误信息: x"))
	assert.Equal(t, BlockError, ClassifyBody("\n\n错误时间: 2025-01-01 00:00:00"))
	assert.Equal(t, BlockOutcome, ClassifyBody("评估时间: 2025-01-01 00:00:00"))
	assert.Equal(t, BlockOutcome, ClassifyBody("错误信息: 不是首行"))
}

func TestSplitBlocks_RenderRoundTrip(t *testing.T) {
	blocks := []LogBlock{
		{Kind: BlockOutcome, Body: "评估时间: t2\n评估期号: 2025119\n\n开奖号码: 456\n\n第2注: 465 - 组选6 - 167元"},
		{Kind: BlockError, Body: "错误时间: t1\n错误信息: 失败"},
	}
	got := SplitBlocks(RenderBlocks(blocks))
	require.Len(t, got, 2)
	assert.Equal(t, blocks[0].Body, got[0].Body)
	assert.Equal(t, BlockOutcome, got[0].Kind)
	assert.Equal(t, blocks[1].Body, got[1].Body)
	assert.Equal(t, BlockError, got[1].Kind)
}

func TestSplitBlocks_Tolerant(t *testing.T) {
	assert.Empty(t, SplitBlocks(""))
	assert.Empty(t, SplitBlocks("\n\n"+Separator+"\n\n"))

	crlf := "评估时间: t\r\n\r\n" + Separator + "\r\n\r\n错误时间: t\r\n"
	got := SplitBlocks(crlf)
	require.Len(t, got, 2)
	assert.Equal(t, BlockError, got[1].Kind)
}

func TestTrimBlocks(t *testing.T) {
	var blocks []LogBlock
	for i := 0; i < 6; i++ {
		blocks = append(blocks,
			LogBlock{Kind: BlockOutcome, Body: fmt.Sprintf("o%d", i)},
			LogBlock{Kind: BlockError, Body: fmt.Sprintf("e%d", i)},
		)
	}

	got := TrimBlocks(blocks, Retention{MaxNormal: 2, MaxError: 3})
	var bodies []string
	for _, b := range got {
		bodies = append(bodies, b.Body)
	}
	assert.Equal(t, []string{"o0", "e0", "o1", "e1", "e2"}, bodies)

	assert.Len(t, TrimBlocks(blocks, Retention{}), 12, "上限<=0表示不限")
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{NewVerifyError(KindInsufficientData, "确定评估期", errors.New("x")), KindInsufficientData},
		{fmt.Errorf("外层: %w", NewVerifyError(KindInputMissing, "读取开奖数据", ErrDatasetUnreadable)), KindInputMissing},
		{ErrEmptyInput, KindInputMissing},
		{fmt.Errorf("%w: a.txt", ErrReportUnreadable), KindInputMissing},
		{ErrInsufficientPeriods, KindInsufficientData},
		{ErrNoTickets, KindParseFailure},
		{ErrReportNotFound, KindParseFailure},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), tt.err.Error())
	}
}

func TestVerifyError(t *testing.T) {
	err := NewVerifyError(KindParseFailure, "提取推荐号码", ErrNoTickets)
	assert.Equal(t, "提取推荐号码: "+ErrNoTickets.Error(), err.Error())
	assert.ErrorIs(t, err, ErrNoTickets)
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "045", Digits{0, 4, 5}.String())
	assert.True(t, Digits{0, 9, 5}.Valid())
	assert.False(t, Digits{0, 10, 5}.Valid())
	assert.False(t, Digits{-1, 1, 5}.Valid())
}
