// Package extract 把上传的简历文件（PDF / DOCX）转换为纯文本，供 AI 解析使用。
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrUnsupported 表示扩展名不受支持，或文件内容与扩展名不符。
	ErrUnsupported = errors.New("unsupported file type")
	// ErrUnreadable 表示文件已损坏或无法解析。
	ErrUnreadable = errors.New("file could not be read")
	// ErrNoText 表示文件可以解析但没有任何文本。
	ErrNoText = errors.New("no text found in file")
	// ErrInfected 表示病毒扫描命中。
	ErrInfected = errors.New("malicious file detected")
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZIP  = "application/zip"
)

// Extract 按扩展名（pdf / docx，可带前导点，大小写不敏感）提取文本。
// 文件内容会先经过 mimetype 嗅探，与扩展名不符时返回 ErrUnsupported。
func Extract(data []byte, ext string) (string, error) {
	ext = NormalizeExt(ext)
	if len(data) == 0 {
		return "", ErrUnreadable
	}

	mt := mimetype.Detect(data)

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		if !isKind(mt, mimePDF) {
			return "", fmt.Errorf("%w: content is %s", ErrUnsupported, mt.String())
		}
		text, err = extractPDF(data)
	case "docx":
		// 精简的 docx 可能只被识别为 zip，交给解析阶段判断
		if !isKind(mt, mimeDOCX) && !isKind(mt, mimeZIP) {
			return "", fmt.Errorf("%w: content is %s", ErrUnsupported, mt.String())
		}
		text, err = extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: .%s", ErrUnsupported, ext)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// NormalizeExt 去掉前导点并转为小写。
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// isKind 沿 mimetype 的父类型链判断是否属于指定类型。
func isKind(mt *mimetype.MIME, want string) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(want) {
			return true
		}
	}
	return false
}

// Extractor 在提取前执行可选的病毒扫描。
type Extractor struct {
	Scanner Scanner
}

func NewExtractor(scanner Scanner) *Extractor {
	return &Extractor{Scanner: scanner}
}

func (e *Extractor) Extract(data []byte, ext string) (string, error) {
	if e != nil && e.Scanner != nil {
		if err := e.Scanner.Scan(data); err != nil {
			return "", err
		}
	}
	return Extract(data, ext)
}
