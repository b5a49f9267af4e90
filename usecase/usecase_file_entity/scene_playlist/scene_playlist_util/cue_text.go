package scene_playlist_util

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// NormalizeCueText 去除BOM并将GBK编码的CUE文本转为UTF-8（CJK抓轨工具常见产物）
func NormalizeCueText(text string) string {
	text = strings.TrimPrefix(text, "\uFEFF")
	data := []byte(text)
	if utf8.Valid(data) {
		return text
	}
	if isGBK(data) {
		decoder := simplifiedchinese.GBK.NewDecoder()
		if utf8Data, _, err := transform.Bytes(decoder, data); err == nil {
			return string(utf8Data)
		}
	}
	return text
}

// 检测是否为GBK编码
func isGBK(data []byte) bool {
	length := len(data)
	var i int
	for i < length {
		if data[i] <= 0x7f {
			i++
			continue
		}

		if i+1 >= length {
			return false
		}

		if data[i] >= 0x81 && data[i] <= 0xfe &&
			data[i+1] >= 0x40 && data[i+1] <= 0xfe && data[i+1] != 0x7f {
			i += 2
			continue
		}

		return false
	}
	return true
}

// ExtractQuotedValue 提取key之后带引号的值（兼容中英文引号）
func ExtractQuotedValue(rawLine, key string) (string, bool) {
	keyIdx := strings.Index(rawLine, key)
	if keyIdx == -1 {
		return "", false
	}

	// 定位起始引号
	start := strings.IndexAny(rawLine[keyIdx:], `"'“”`)
	if start == -1 {
		return "", false
	}
	start += keyIdx + 1

	// 定位结束引号
	end := strings.IndexAny(rawLine[start:], `"'“”`)
	if end == -1 {
		return "", false
	}
	return rawLine[start : start+end], true
}

// ExtractQuotedValueSimple 去掉首尾引号，无引号时原样去空白返回
func ExtractQuotedValueSimple(s string) string {
	quotes := `"'“”`
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), quotes))
}
