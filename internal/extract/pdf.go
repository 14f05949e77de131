package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF 逐页读取内容流，按文本操作符还原文字，页与页之间以空行分隔。
func extractPDF(data []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil || len(content) == 0 {
			continue
		}
		if text := textFromContentStream(content); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// textFromContentStream 按词法扫描内容流，解析 Tj、TJ、'、" 文本操作符；
// Td、TD、T*、ET 与引号操作符产生换行。操作符与操作数可以位于同一行。
func textFromContentStream(content []byte) string {
	var (
		lines    []string
		cur      strings.Builder
		operands []string
	)
	newline := func() {
		if line := collapseSpaces(cur.String()); line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}
	show := func() {
		for _, s := range operands {
			cur.WriteString(s)
		}
	}

	for i := 0; i < len(content); {
		c := content[i]
		switch {
		case isPDFSpace(c), c == '[', c == ']', c == '{', c == '}', c == '>', c == ')':
			i++
		case c == '%':
			for i < len(content) && content[i] != '\n' && content[i] != '\r' {
				i++
			}
		case c == '(':
			text, n := readLiteral(content[i:])
			operands = append(operands, text)
			i += n
		case c == '<' && i+1 < len(content) && content[i+1] == '<':
			i += 2
		case c == '<':
			text, n := readHexString(content[i:])
			operands = append(operands, text)
			i += n
		case c == '/':
			i = skipRegular(content, i+1)
		default:
			j := skipRegular(content, i)
			tok := string(content[i:j])
			i = j
			if isPDFNumber(tok) {
				continue
			}
			switch tok {
			case "Tj", "TJ":
				show()
			case "'", `"`:
				newline()
				show()
			case "Td", "TD", "T*", "ET":
				newline()
			case "ID":
				i = skipInlineImage(content, i)
			}
			operands = operands[:0]
		}
	}
	newline()
	return strings.Join(lines, "\n")
}

func isPDFSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

// skipRegular 返回从 i 开始的普通字符序列的结束位置。
func skipRegular(content []byte, i int) int {
	for i < len(content) && !isPDFSpace(content[i]) && !isPDFDelimiter(content[i]) {
		i++
	}
	return i
}

func isPDFNumber(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if strings.IndexByte("+-.0123456789", tok[i]) < 0 {
			return false
		}
	}
	return true
}

// skipInlineImage 跳过 ID 与 EI 之间的二进制图像数据。
func skipInlineImage(content []byte, i int) int {
	for j := i; j+2 <= len(content); j++ {
		if content[j] == 'E' && content[j+1] == 'I' && j > 0 && isPDFSpace(content[j-1]) &&
			(j+2 == len(content) || isPDFSpace(content[j+2])) {
			return j + 2
		}
	}
	return len(content)
}

// readLiteral 解码以 ( 开头的字符串字面量，支持嵌套括号与转义，返回文本和消耗的字节数。
func readLiteral(b []byte) (string, int) {
	var (
		sb    strings.Builder
		depth = 1
		j     = 1
	)
	for ; j < len(b) && depth > 0; j++ {
		c := b[j]
		switch {
		case c == '\\' && j+1 < len(b):
			j += decodeEscape(b[j+1:], &sb)
		case c == '(':
			depth++
			sb.WriteByte(c)
		case c == ')':
			depth--
			if depth > 0 {
				sb.WriteByte(c)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return decodeText([]byte(sb.String())), j
}

// readHexString 解码以 < 开头的十六进制字符串，奇数位末尾补 0。
func readHexString(b []byte) (string, int) {
	var (
		out  []byte
		half = -1
		j    = 1
	)
	for ; j < len(b) && b[j] != '>'; j++ {
		v, ok := hexValue(b[j])
		if !ok {
			continue
		}
		if half < 0 {
			half = v
			continue
		}
		out = append(out, byte(half<<4|v))
		half = -1
	}
	if half >= 0 {
		out = append(out, byte(half<<4))
	}
	if j < len(b) {
		j++
	}
	return decodeText(out), j
}

func hexValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// decodeText 把字符串字节转成 UTF-8：带 BOM 的按 UTF-16BE 解码，
// 合法 UTF-8 原样保留，其余按单字节编码逐字映射，控制字符丢弃。
func decodeText(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		units := make([]uint16, 0, len(b)/2)
		for i := 2; i+1 < len(b); i += 2 {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(units))
	}
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	for _, c := range b {
		if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
			continue
		}
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// decodeEscape 写入反斜杠之后的转义字符，返回额外消耗的字节数。
func decodeEscape(rest []byte, sb *strings.Builder) int {
	switch c := rest[0]; c {
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'b', 'f':
	case '\r', '\n':
		// 行尾续行
	default:
		if c >= '0' && c <= '7' {
			val, n := 0, 0
			for n < 3 && n < len(rest) && rest[n] >= '0' && rest[n] <= '7' {
				val = val*8 + int(rest[n]-'0')
				n++
			}
			sb.WriteByte(byte(val))
			return n
		}
		sb.WriteByte(c)
	}
	return 1
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
