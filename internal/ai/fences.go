package ai

import (
	"fmt"
	"strings"
)

// ParseError 表示模型返回的文本无法解析为期望的结构，Raw 保留原始响应便于排查。
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse AI response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StripFences removes surrounding whitespace and a leading/trailing
// markdown code fence, including an optional language tag such as ```json.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// 语言标记只占第一行
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			if tag := strings.TrimSpace(s[:nl]); tag == "" || isFenceTag(tag) {
				s = s[nl+1:]
			}
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isFenceTag(tag string) bool {
	for _, r := range tag {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+') {
			return false
		}
	}
	return true
}

// ExtractJSONObject 返回从第一个 '{' 到最后一个 '}' 的片段。
func ExtractJSONObject(raw string) (string, bool) {
	s := StripFences(raw)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
