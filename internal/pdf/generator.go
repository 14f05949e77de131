package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Renderer 把一份完整的 HTML 页面转换为 PDF 字节。
type Renderer interface {
	RenderPDF(ctx context.Context, html string, s Settings) ([]byte, error)
}

const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// NewEngine 按名称创建渲染引擎，bin 为空时自动查找本机 Chromium。
func NewEngine(name, bin string) (Renderer, error) {
	switch name {
	case "", EngineRod:
		return &RodRenderer{Bin: bin}, nil
	case EngineChromedp:
		return &ChromedpRenderer{ExecPath: bin}, nil
	default:
		return nil, fmt.Errorf("unknown pdf engine %q", name)
	}
}

// RodRenderer 使用 go-rod 在无头浏览器中渲染 HTML。每次调用独占一个浏览器进程。
type RodRenderer struct {
	Bin string
}

func (r *RodRenderer) RenderPDF(ctx context.Context, htmlContent string, s Settings) ([]byte, error) {
	launch := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)

	if r.Bin != "" {
		launch = launch.Bin(r.Bin)
	} else if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	defer launch.Cleanup()

	browser := rod.New().ControlURL(browserURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	if err := page.SetDocumentContent(htmlContent); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	if err := page.AddStyleTag("", BuildPrintCSS(s)); err != nil {
		return nil, fmt.Errorf("inject print css: %w", err)
	}

	if err := (proto.EmulationSetEmulatedMedia{Media: "print"}).Call(page); err != nil {
		return nil, fmt.Errorf("set emulated media to print: %w", err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}

	return data, nil
}
