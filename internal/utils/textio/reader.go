package textio

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// ErrUndecodable 所有候选编码都无法解码
var ErrUndecodable = errors.New("无法使用任何支持的编码打开文件")

// DefaultEncodings 默认依次尝试的编码
var DefaultEncodings = []string{"utf-8", "gbk", "latin-1"}

// Reader 按候选编码顺序读取文本文件
type Reader struct {
	encodings []string
	logger    *logrus.Logger
}

// NewReader 创建读取器；encodings 为空时使用 DefaultEncodings
func NewReader(encodings []string, logger *logrus.Logger) *Reader {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	return &Reader{encodings: encodings, logger: logger}
}

// ReadFile 读取并解码文件，第一个无错解码的编码胜出
func (r *Reader) ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取文件失败 %s: %w", path, err)
	}
	text, enc, err := Decode(raw, r.encodings)
	if err != nil {
		r.logger.WithField("file", path).Error(err.Error())
		return "", fmt.Errorf("%s: %w", path, err)
	}
	r.logger.WithFields(logrus.Fields{"file": path, "encoding": enc}).Debug("文件读取成功")
	return text, nil
}

// Decode 依次尝试各编码，返回文本与命中的编码名
func Decode(raw []byte, encodings []string) (string, string, error) {
	for _, name := range encodings {
		text, ok := decodeAs(raw, name)
		if ok {
			return text, name, nil
		}
	}
	return "", "", ErrUndecodable
}

func decodeAs(raw []byte, name string) (string, bool) {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		if !utf8.Valid(raw) {
			return "", false
		}
		return strings.TrimPrefix(string(raw), "\ufeff"), true
	case "gbk":
		return decodeStrict(simplifiedchinese.GBK, raw)
	case "latin-1", "latin1", "iso-8859-1":
		return decodeStrict(charmap.ISO8859_1, raw)
	default:
		return "", false
	}
}

// decodeStrict 解码结果出现替换字符视为失败
func decodeStrict(enc encoding.Encoding, raw []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(out) || strings.ContainsRune(string(out), utf8.RuneError) {
		return "", false
	}
	return string(out), true
}
