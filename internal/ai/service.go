package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"buildit/internal/metrics"
	"buildit/internal/resume"
)

var (
	// ErrNoJSON 表示模型响应中找不到 JSON 对象。
	ErrNoJSON = errors.New("response contains no JSON object")
	// ErrEmptyResponse 表示模型返回了空文本。
	ErrEmptyResponse = errors.New("response is empty")
)

const (
	opParseResume    = "parse_resume"
	opRewriteResume  = "rewrite_resume"
	opRewriteSection = "rewrite_section"
	opCoverLetter    = "cover_letter"
)

// Service 组合提示词、模型调用与响应解析。模型输出一律视为不可信文本。
type Service struct {
	completer Completer
	logger    *slog.Logger
}

func NewService(completer Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{completer: completer, logger: logger}
}

// ParseResume 把上传文件中提取的纯文本结构化为简历。
func (s *Service) ParseResume(ctx context.Context, text string) (*resume.Document, error) {
	raw, err := s.complete(ctx, opParseResume, fmt.Sprintf(parseResumePrompt, text))
	if err != nil {
		return nil, err
	}

	var doc resume.Document
	if _, err := s.decodeObject(opParseResume, raw, &doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	doc.PruneEmptySections()
	return &doc, nil
}

// RewriteResume 针对职位描述改写整份简历。模型遗漏的排版与导出设置沿用原值。
func (s *Service) RewriteResume(ctx context.Context, jd string, doc *resume.Document) (*resume.Document, error) {
	if doc == nil {
		return nil, errors.New("resume document is nil")
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode resume for prompt: %w", err)
	}

	raw, err := s.complete(ctx, opRewriteResume, fmt.Sprintf(rewriteResumePrompt, jd, body))
	if err != nil {
		return nil, err
	}

	var out resume.Document
	fields, err := s.decodeObject(opRewriteResume, raw, &out)
	if err != nil {
		return nil, err
	}
	if !hasField(fields, "formatting") {
		out.Formatting = doc.Formatting
	}
	if !hasField(fields, "pdf_settings") {
		out.PDFSettings = doc.PDFSettings
	}
	out.Email = doc.Email
	out.LastUpdated = nil

	out.Normalize()
	out.PruneEmptySections()
	return &out, nil
}

// RewriteSection 改写单个 Section：有职位描述时按其优化，否则只做语法与可读性润色。
func (s *Service) RewriteSection(ctx context.Context, jd string, section resume.Section) (*resume.Section, error) {
	body, err := json.MarshalIndent(section, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode section for prompt: %w", err)
	}

	var prompt string
	if strings.TrimSpace(jd) != "" {
		prompt = fmt.Sprintf(rewriteSectionForJobPrompt, jd, body)
	} else {
		prompt = fmt.Sprintf(polishSectionPrompt, body)
	}

	raw, err := s.complete(ctx, opRewriteSection, prompt)
	if err != nil {
		return nil, err
	}

	var out resume.Section
	if _, err := s.decodeObject(opRewriteSection, raw, &out); err != nil {
		return nil, err
	}
	if out.Type == "" {
		out.Type = section.Type
	}
	if out.TitleFormatting == (resume.TextFormatting{}) {
		out.TitleFormatting = section.TitleFormatting
	}
	if out.ContentFormatting == (resume.TextFormatting{}) {
		out.ContentFormatting = section.ContentFormatting
	}
	out.Normalize()
	return &out, nil
}

// CoverLetter 根据职位描述与简历生成纯文本求职信。
func (s *Service) CoverLetter(ctx context.Context, jd string, doc *resume.Document) (string, error) {
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode resume for prompt: %w", err)
	}

	raw, err := s.complete(ctx, opCoverLetter, fmt.Sprintf(coverLetterPrompt, jd, body))
	if err != nil {
		return "", err
	}

	letter := StripFences(raw)
	if letter == "" {
		metrics.AICall(opCoverLetter, "parse_error")
		return "", &ParseError{Raw: raw, Err: ErrEmptyResponse}
	}
	metrics.AICall(opCoverLetter, "ok")
	return letter, nil
}

func (s *Service) complete(ctx context.Context, op, prompt string) (string, error) {
	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		metrics.AICall(op, "error")
		s.logger.Error("AI 调用失败", slog.String("operation", op), slog.Any("error", err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}

// decodeObject 从响应中截取 JSON 对象并解码到 dst，同时返回顶层字段表，
// 供调用方判断模型是否给出了某个字段。失败时返回携带原文的 *ParseError。
func (s *Service) decodeObject(op, raw string, dst any) (map[string]json.RawMessage, error) {
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		return nil, s.parseFailure(op, raw, ErrNoJSON)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, s.parseFailure(op, raw, err)
	}
	if err := json.Unmarshal([]byte(obj), dst); err != nil {
		return nil, s.parseFailure(op, raw, err)
	}
	metrics.AICall(op, "ok")
	return fields, nil
}

// hasField 判断字段是否出现且不为 null。
func hasField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	return ok && strings.TrimSpace(string(raw)) != "null"
}

func (s *Service) parseFailure(op, raw string, err error) error {
	metrics.AICall(op, "parse_error")
	s.logger.Warn("AI 响应解析失败",
		slog.String("operation", op),
		slog.Int("raw_length", len(raw)),
		slog.Any("error", err),
	)
	return &ParseError{Raw: raw, Err: err}
}
