package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText 保存・読込の境界で文字列を正規化する
// 不正な UTF-8 は U+FFFD に置換した上で NFC に揃える
func NormalizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToValidUTF8(s, "\ufffd")
	return norm.NFC.String(s)
}

func normalizeOptional(s *string) {
	if s != nil {
		*s = NormalizeText(*s)
	}
}
