package api

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"buildit/internal/pdf"
	"buildit/internal/resume"
	"buildit/internal/storage"
	"buildit/internal/store"
)

// PDFExporter 由 *pdf.Exporter 实现。
type PDFExporter interface {
	Export(ctx context.Context, html string, s pdf.Settings) ([]byte, error)
}

// AIService 由 *ai.Service 实现。
type AIService interface {
	ParseResume(ctx context.Context, text string) (*resume.Document, error)
	RewriteResume(ctx context.Context, jd string, doc *resume.Document) (*resume.Document, error)
	RewriteSection(ctx context.Context, jd string, section resume.Section) (*resume.Section, error)
	CoverLetter(ctx context.Context, jd string, doc *resume.Document) (string, error)
}

// TextExtractor 由 *extract.Extractor 实现。
type TextExtractor interface {
	Extract(data []byte, ext string) (string, error)
}

// ExportStorage 由 *storage.Client 实现。
type ExportStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	GeneratePresignedURL(ctx context.Context, objectKey string, duration time.Duration, params map[string]string) (string, error)
	ListObjects(ctx context.Context, prefix string) ([]storage.ObjectMeta, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

// Services 汇总路由所需的依赖。AI、Storage、Limiter 可以为 nil：
// AI 与 Storage 缺失时对应接口返回 503，Limiter 缺失时不限流。
type Services struct {
	Store          store.Store
	Exporter       PDFExporter
	Renderer       *resume.Renderer
	AI             AIService
	Extractor      TextExtractor
	Storage        ExportStorage
	Limiter        *DailyLimiter
	MaxUploadBytes int64
}
