package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"buildit/internal/metrics"
)

// ErrEmptyHTML 表示请求未提供任何 HTML。
var ErrEmptyHTML = errors.New("html content is empty")

// RenderError 是导出失败时返回给调用方的唯一错误类型，Message 可直接展示给用户。
type RenderError struct {
	Engine  string
	Message string
	Err     error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("PDF generation failed: %s", e.Message)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Exporter 包装具体引擎：限定单次渲染时长、校验输出并记录指标。
type Exporter struct {
	engine  Renderer
	name    string
	timeout time.Duration
	logger  *slog.Logger
}

func NewExporter(name string, engine Renderer, timeout time.Duration, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if name == "" {
		name = EngineRod
	}
	return &Exporter{engine: engine, name: name, timeout: timeout, logger: logger}
}

// Export 渲染 HTML 为 PDF。失败时不返回任何字节。
func (e *Exporter) Export(ctx context.Context, html string, s Settings) (data []byte, err error) {
	if strings.TrimSpace(html) == "" {
		return nil, &RenderError{Engine: e.name, Message: ErrEmptyHTML.Error(), Err: ErrEmptyHTML}
	}
	s.Normalize()

	done := metrics.TrackRender(e.name)
	defer func() { done(err) }()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := e.engine.RenderPDF(ctx, html, s)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		e.logger.Error("PDF 渲染失败", slog.String("engine", e.name), slog.Any("error", err))
		return nil, &RenderError{Engine: e.name, Message: err.Error(), Err: err}
	}

	pages, err := validatePDF(out)
	if err != nil {
		e.logger.Error("PDF 输出校验失败", slog.String("engine", e.name), slog.Any("error", err))
		return nil, &RenderError{Engine: e.name, Message: err.Error(), Err: err}
	}

	e.logger.Info("PDF 渲染完成",
		slog.String("engine", e.name),
		slog.Int("pages", pages),
		slog.Int("bytes", len(out)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// RenderPDF 使 Exporter 本身也满足 Renderer。
func (e *Exporter) RenderPDF(ctx context.Context, html string, s Settings) ([]byte, error) {
	return e.Export(ctx, html, s)
}

func validatePDF(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, errors.New("renderer returned no bytes")
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("validate pdf: %w", err)
	}
	if n == 0 {
		return 0, errors.New("renderer produced a pdf without pages")
	}
	return n, nil
}
