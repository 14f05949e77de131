package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"buildit/internal/api/middleware"
	"buildit/internal/errcode"
	"buildit/internal/pdf"
	"buildit/internal/resume"
)

// PDFHandler 负责 HTML 预览与 PDF 导出。
type PDFHandler struct {
	exporter PDFExporter
	renderer *resume.Renderer
}

func NewPDFHandler(exporter PDFExporter, renderer *resume.Renderer) *PDFHandler {
	if renderer == nil {
		renderer = resume.NewRenderer(false)
	}
	return &PDFHandler{exporter: exporter, renderer: renderer}
}

// generatePDFRequest 中未出现的导出参数使用默认值。
type generatePDFRequest struct {
	HTML string `json:"html"`
	pdf.Settings
}

// GeneratePDF 把调用方提供的完整 HTML 页面渲染为 PDF。
func (h *PDFHandler) GeneratePDF(c *gin.Context) {
	req := generatePDFRequest{Settings: pdf.DefaultSettings()}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.HTML) == "" {
		BadRequest(c, "html is required")
		return
	}

	data, err := h.exporter.Export(c.Request.Context(), req.HTML, req.Settings)
	if err != nil {
		writeRenderError(c, err)
		return
	}

	writePDF(c, "resume.pdf", data)
}

// Preview 返回与导出一致的 HTML 页面，供前端实时预览。
func (h *PDFHandler) Preview(c *gin.Context) {
	var doc resume.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		BadRequest(c, "invalid resume document")
		return
	}

	page, err := h.renderer.Assemble(doc)
	if err != nil {
		middleware.LoggerFromContext(c).Error("assemble resume", slog.Any("error", err))
		Internal(c, "failed to assemble resume")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func writePDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func writeRenderError(c *gin.Context, err error) {
	middleware.LoggerFromContext(c).Error("render pdf", slog.Any("error", err))

	if errors.Is(err, context.DeadlineExceeded) {
		Error(c, http.StatusGatewayTimeout, errcode.RenderFailed, "PDF generation timed out")
		return
	}
	var renderErr *pdf.RenderError
	if errors.As(err, &renderErr) {
		Error(c, http.StatusInternalServerError, errcode.RenderFailed, renderErr.Error())
		return
	}
	Error(c, http.StatusInternalServerError, errcode.RenderFailed, "PDF generation failed")
}
