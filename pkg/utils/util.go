package utils

import "strings"

// WordCount は空白区切りでテキストの単語数を数えます。
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Truncate は s を最大 n 文字（rune 単位）に切り詰めます。ログ出力用です。
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
