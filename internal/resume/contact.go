package resume

import (
	"regexp"
)

// URL 截止到下一个空白或管道符。
var urlPattern = regexp.MustCompile(`(https?://[^\s|]+)`)

// Linkify wraps every http(s) URL in an anchor that opens in a new tab.
func Linkify(text string) string {
	return urlPattern.ReplaceAllString(text, `<a href="$1" target="_blank" rel="noopener noreferrer">$1</a>`)
}
