package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"

	"buildit/internal/api/middleware"
	"buildit/internal/errcode"
	"buildit/internal/pdf"
	"buildit/internal/resume"
	"buildit/internal/storage"
	"buildit/internal/store"
)

const (
	exportLinkTTL    = 15 * time.Minute
	maxExportsPerCV  = 10
	listExportsLimit = 50
)

// ResumeHandler 负责按 email 读写简历，以及导出存档。
type ResumeHandler struct {
	store    store.Store
	exporter PDFExporter
	renderer *resume.Renderer
	storage  ExportStorage
	now      func() time.Time
}

// NewResumeHandler 构造 ResumeHandler，storageClient 可以为 nil。
func NewResumeHandler(s store.Store, exporter PDFExporter, renderer *resume.Renderer, storageClient ExportStorage) *ResumeHandler {
	if renderer == nil {
		renderer = resume.NewRenderer(false)
	}
	return &ResumeHandler{
		store:    s,
		exporter: exporter,
		renderer: renderer,
		storage:  storageClient,
		now:      time.Now,
	}
}

// GetResume 返回 email 对应的简历。
func (h *ResumeHandler) GetResume(c *gin.Context) {
	doc, ok := h.loadResume(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

// SaveResume 以 email 为键覆盖保存简历，并发写入时后写者生效。
func (h *ResumeHandler) SaveResume(c *gin.Context) {
	email, ok := emailParam(c)
	if !ok {
		return
	}

	var doc resume.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		BadRequest(c, "invalid resume document")
		return
	}
	doc.Normalize()

	if err := h.store.Save(c.Request.Context(), email, &doc); err != nil {
		middleware.LoggerFromContext(c).Error("save resume", slog.Any("error", err))
		Error(c, http.StatusInternalServerError, errcode.Persistence, "failed to save resume")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Resume saved successfully"})
}

// ExportResume 渲染已保存的简历，上传到对象存储并返回限时下载链接。
// 每份简历只保留最近 maxExportsPerCV 个导出文件。
func (h *ResumeHandler) ExportResume(c *gin.Context) {
	if h.storage == nil {
		Unavailable(c, "export storage is not configured")
		return
	}
	doc, ok := h.loadResume(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	page, err := h.renderer.Assemble(*doc)
	if err != nil {
		logger.Error("assemble resume", slog.Any("error", err))
		Internal(c, "failed to assemble resume")
		return
	}
	data, err := h.exporter.Export(ctx, page, pdf.FromDocument(doc.PDFSettings))
	if err != nil {
		writeRenderError(c, err)
		return
	}

	objectKey := newExportObjectKey(doc.Email, h.now())
	if _, err := h.storage.UploadFile(ctx, objectKey, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		logger.Error("upload export", slog.String("objectKey", objectKey), slog.Any("error", err))
		writeStorageError(c, err, "failed to upload export")
		return
	}

	url, err := h.storage.GeneratePresignedURL(ctx, objectKey, exportLinkTTL, downloadParams(doc.Name))
	if err != nil {
		logger.Error("generate export url", slog.String("objectKey", objectKey), slog.Any("error", err))
		writeStorageError(c, err, "failed to generate download link")
		return
	}

	h.pruneExports(c, doc.Email)

	c.JSON(http.StatusCreated, gin.H{
		"object_key": objectKey,
		"url":        url,
		"expires_at": h.now().Add(exportLinkTTL).UTC(),
	})
}

// ListExports 列出简历的历史导出，最新的在前。
func (h *ResumeHandler) ListExports(c *gin.Context) {
	if h.storage == nil {
		Unavailable(c, "export storage is not configured")
		return
	}
	doc, ok := h.loadResume(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	objects, err := h.storage.ListObjects(ctx, exportPrefix(doc.Email))
	if err != nil {
		logger.Error("list exports", slog.Any("error", err))
		writeStorageError(c, err, "failed to list exports")
		return
	}
	sortNewestFirst(objects)
	if len(objects) > listExportsLimit {
		objects = objects[:listExportsLimit]
	}

	params := downloadParams(doc.Name)
	items := make([]gin.H, 0, len(objects))
	for _, obj := range objects {
		url, err := h.storage.GeneratePresignedURL(ctx, obj.Key, exportLinkTTL, params)
		if err != nil {
			logger.Error("generate export url", slog.String("objectKey", obj.Key), slog.Any("error", err))
			continue
		}
		items = append(items, gin.H{
			"object_key":    obj.Key,
			"url":           url,
			"size":          obj.Size,
			"last_modified": obj.LastModified,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetExportLink 为指定导出文件重新签发下载链接。
func (h *ResumeHandler) GetExportLink(c *gin.Context) {
	if h.storage == nil {
		Unavailable(c, "export storage is not configured")
		return
	}
	email, ok := emailParam(c)
	if !ok {
		return
	}

	objectKey := strings.TrimSpace(c.Query("key"))
	if !isValidExportObjectKey(email, objectKey) {
		BadRequest(c, "invalid object key")
		return
	}

	url, err := h.storage.GeneratePresignedURL(c.Request.Context(), objectKey, exportLinkTTL, downloadParams(""))
	if err != nil {
		middleware.LoggerFromContext(c).Error("generate export url", slog.String("objectKey", objectKey), slog.Any("error", err))
		writeStorageError(c, err, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *ResumeHandler) loadResume(c *gin.Context) (*resume.Document, bool) {
	email, ok := emailParam(c)
	if !ok {
		return nil, false
	}

	doc, err := h.store.Get(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, "Resume not found")
			return nil, false
		}
		middleware.LoggerFromContext(c).Error("load resume", slog.Any("error", err))
		Error(c, http.StatusInternalServerError, errcode.Persistence, "failed to load resume")
		return nil, false
	}
	return doc, true
}

// pruneExports 删除超出保留数量的旧导出，失败只记录日志。
func (h *ResumeHandler) pruneExports(c *gin.Context, email string) {
	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	objects, err := h.storage.ListObjects(ctx, exportPrefix(email))
	if err != nil {
		logger.Warn("list exports for pruning", slog.Any("error", err))
		return
	}
	if len(objects) <= maxExportsPerCV {
		return
	}
	sortNewestFirst(objects)
	for _, obj := range objects[maxExportsPerCV:] {
		if err := h.storage.DeleteObject(ctx, obj.Key); err != nil {
			logger.Warn("delete old export", slog.String("objectKey", obj.Key), slog.Any("error", err))
		}
	}
}

// writeStorageError 按存储错误类别选择状态码：部署或服务可用性问题返回 503，其余返回 502。
func writeStorageError(c *gin.Context, err error, msg string) {
	status := http.StatusBadGateway
	if storage.Classify(err).Unavailable() {
		status = http.StatusServiceUnavailable
	}
	Error(c, status, errcode.StorageFailed, msg)
}

func emailParam(c *gin.Context) (string, bool) {
	email, err := store.NormalizeEmail(c.Param("email"))
	if err != nil {
		BadRequest(c, "email is required")
		return "", false
	}
	return email, true
}

// 对象键以时间戳开头，按键倒序即最新在前。
func sortNewestFirst(objects []storage.ObjectMeta) {
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key > objects[j].Key
	})
}

func downloadParams(name string) map[string]string {
	return map[string]string{
		"response-content-disposition": `attachment; filename="` + downloadFilename(name) + `"`,
		"response-content-type":        "application/pdf",
	}
}

// downloadFilename 只保留字母数字，其余字符折叠为连字符。
func downloadFilename(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	base := strings.TrimSuffix(b.String(), "-")
	if base == "" {
		return "resume.pdf"
	}
	return base + "-resume.pdf"
}
