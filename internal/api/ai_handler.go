package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"buildit/internal/ai"
	"buildit/internal/api/middleware"
	"buildit/internal/errcode"
	"buildit/internal/extract"
	"buildit/internal/resume"
)

const (
	defaultMaxUploadBytes = 10 << 20
	extractFailedMessage  = "Could not extract text from file."
)

// AIHandler 负责上传解析与 AI 改写接口。
type AIHandler struct {
	ai             AIService
	extractor      TextExtractor
	maxUploadBytes int64
}

func NewAIHandler(service AIService, extractor TextExtractor, maxUploadBytes int64) *AIHandler {
	if extractor == nil {
		extractor = extract.NewExtractor(nil)
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &AIHandler{ai: service, extractor: extractor, maxUploadBytes: maxUploadBytes}
}

type jobResumeRequest struct {
	JD     string           `json:"jd"`
	Resume *resume.Document `json:"resume" binding:"required"`
}

type rewriteSectionRequest struct {
	JD      string          `json:"jd"`
	Section *resume.Section `json:"section" binding:"required"`
}

// ParseResume 从上传的 PDF / DOCX 中提取文本并交给 AI 结构化。
func (h *AIHandler) ParseResume(c *gin.Context) {
	if h.ai == nil {
		Unavailable(c, "AI service is not configured")
		return
	}

	if c.Request.ContentLength > h.maxUploadBytes {
		Error(c, http.StatusRequestEntityTooLarge, errcode.Validation, "file is too large")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(c, http.StatusRequestEntityTooLarge, errcode.Validation, "file is too large")
			return
		}
		BadRequest(c, "missing file")
		return
	}
	if file.Size > h.maxUploadBytes {
		Error(c, http.StatusRequestEntityTooLarge, errcode.Validation, "file is too large")
		return
	}

	reader, err := file.Open()
	if err != nil {
		Internal(c, "failed to open file")
		return
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		Internal(c, "failed to read file")
		return
	}

	logger := middleware.LoggerFromContext(c)
	text, err := h.extractor.Extract(data, filepath.Ext(file.Filename))
	if err != nil {
		logger.Warn("extract resume text",
			slog.String("filename", file.Filename),
			slog.Any("error", err),
		)
		switch {
		case errors.Is(err, extract.ErrInfected):
			Error(c, http.StatusBadRequest, errcode.Extraction, "malicious file detected")
		case errors.Is(err, extract.ErrUnsupported),
			errors.Is(err, extract.ErrUnreadable),
			errors.Is(err, extract.ErrNoText):
			Error(c, http.StatusBadRequest, errcode.Extraction, extractFailedMessage)
		default:
			Internal(c, "failed to scan file")
		}
		return
	}

	doc, err := h.ai.ParseResume(c.Request.Context(), text)
	if err != nil {
		writeAIError(c, "Failed to parse resume", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// RewriteResume 针对职位描述改写整份简历。
func (h *AIHandler) RewriteResume(c *gin.Context) {
	if h.ai == nil {
		Unavailable(c, "AI service is not configured")
		return
	}
	var req jobResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "resume is required")
		return
	}
	if strings.TrimSpace(req.JD) == "" {
		BadRequest(c, "jd is required")
		return
	}

	doc, err := h.ai.RewriteResume(c.Request.Context(), req.JD, req.Resume)
	if err != nil {
		writeAIError(c, "Failed to rewrite resume", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// RewriteSection 改写单个 Section；jd 为空时只做润色。
func (h *AIHandler) RewriteSection(c *gin.Context) {
	if h.ai == nil {
		Unavailable(c, "AI service is not configured")
		return
	}
	var req rewriteSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "section is required")
		return
	}

	section, err := h.ai.RewriteSection(c.Request.Context(), req.JD, *req.Section)
	if err != nil {
		writeAIError(c, "Failed to rewrite section", err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// CoverLetter 生成纯文本求职信。
func (h *AIHandler) CoverLetter(c *gin.Context) {
	if h.ai == nil {
		Unavailable(c, "AI service is not configured")
		return
	}
	var req jobResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "resume is required")
		return
	}
	if strings.TrimSpace(req.JD) == "" {
		BadRequest(c, "jd is required")
		return
	}

	letter, err := h.ai.CoverLetter(c.Request.Context(), req.JD, req.Resume)
	if err != nil {
		writeAIError(c, "Failed to generate cover letter", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cover_letter": letter})
}

// writeAIError 区分模型输出无法解析（附带原文）与模型调用失败。
func writeAIError(c *gin.Context, msg string, err error) {
	middleware.LoggerFromContext(c).Error(msg, slog.Any("error", err))

	var parseErr *ai.ParseError
	if errors.As(err, &parseErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": msg,
			"code":  errcode.AIParse,
			"raw":   parseErr.Raw,
		})
		return
	}
	Error(c, http.StatusBadGateway, errcode.AIUpstream, msg)
}
