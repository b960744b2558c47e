package textio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDecode(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("分析基于数据: 截至 118 期"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		raw       []byte
		encodings []string
		wantText  string
		wantEnc   string
		wantErr   bool
	}{
		{name: "utf-8", raw: []byte("注 1: [1, 2, 3]"), encodings: DefaultEncodings, wantText: "注 1: [1, 2, 3]", wantEnc: "utf-8"},
		{name: "utf-8 with BOM", raw: []byte("\ufeffabc"), encodings: DefaultEncodings, wantText: "abc", wantEnc: "utf-8"},
		{name: "gbk fallback", raw: gbk, encodings: DefaultEncodings, wantText: "分析基于数据: 截至 118 期", wantEnc: "gbk"},
		{name: "latin-1 fallback", raw: []byte{0x41, 0xff, 0x80}, encodings: DefaultEncodings, wantText: "Aÿ\u0080", wantEnc: "latin-1"},
		{name: "nothing decodes", raw: []byte{0xff, 0xfe, 0x80}, encodings: []string{"utf-8"}, wantErr: true},
		{name: "unknown encoding", raw: []byte("abc"), encodings: []string{"ebcdic"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, enc, err := Decode(tt.raw, tt.encodings)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUndecodable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantEnc, enc)
		})
	}
}

func TestReader_ReadFile(t *testing.T) {
	dir := t.TempDir()
	r := NewReader(nil, quietLogger())

	path := filepath.Join(dir, "pls.csv")
	require.NoError(t, os.WriteFile(path, []byte("期号,百位,十位,个位\n"), 0644))

	text, err := r.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "期号,百位,十位,个位\n", text)

	_, err = r.ReadFile(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	strict := NewReader([]string{"utf-8"}, quietLogger())
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte{0xc3, 0x28}, 0644))
	_, err = strict.ReadFile(bad)
	assert.ErrorIs(t, err, ErrUndecodable)
}
