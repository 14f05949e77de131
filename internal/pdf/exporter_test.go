package pdf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"buildit/internal/pdf/pdftest"
)

type fakeRenderer struct {
	data []byte
	err  error
	wait bool

	gotHTML     string
	gotSettings Settings
}

func (f *fakeRenderer) RenderPDF(ctx context.Context, html string, s Settings) ([]byte, error) {
	f.gotHTML = html
	f.gotSettings = s
	if f.wait {
		<-ctx.Done()
		return []byte("%PDF-partial"), ctx.Err()
	}
	return f.data, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExporterReturnsValidatedPDF(t *testing.T) {
	engine := &fakeRenderer{data: pdftest.TextPDF("hello")}
	exp := NewExporter("fake", engine, time.Second, discardLogger())

	out, err := exp.Export(context.Background(), "<html><body>hi</body></html>", Settings{Zoom: 2})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected pdf bytes")
	}
	if engine.gotSettings.Zoom != 2 || engine.gotSettings.PageSize != "A4" || engine.gotSettings.Margins.Top != "8mm" {
		t.Fatalf("settings not normalized before render: %+v", engine.gotSettings)
	}
}

func TestExporterWrapsEngineFailure(t *testing.T) {
	cause := errors.New("browser crashed")
	exp := NewExporter("fake", &fakeRenderer{err: cause}, time.Second, discardLogger())

	out, err := exp.Export(context.Background(), "<p>x</p>", Settings{})
	if out != nil {
		t.Fatal("no bytes expected on failure")
	}
	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RenderError, got %T", err)
	}
	if !errors.Is(err, cause) || !strings.Contains(rerr.Error(), "browser crashed") {
		t.Fatalf("underlying message lost: %v", err)
	}
}

func TestExporterRejectsInvalidOutput(t *testing.T) {
	exp := NewExporter("fake", &fakeRenderer{data: []byte("not a pdf")}, time.Second, discardLogger())

	out, err := exp.Export(context.Background(), "<p>x</p>", Settings{})
	var rerr *RenderError
	if !errors.As(err, &rerr) || out != nil {
		t.Fatalf("expected render error without bytes, got %v / %d bytes", err, len(out))
	}
}

func TestExporterRejectsEmptyHTML(t *testing.T) {
	engine := &fakeRenderer{data: pdftest.TextPDF("x")}
	exp := NewExporter("fake", engine, time.Second, discardLogger())

	_, err := exp.Export(context.Background(), "   ", Settings{})
	if !errors.Is(err, ErrEmptyHTML) {
		t.Fatalf("expected ErrEmptyHTML, got %v", err)
	}
	if engine.gotHTML != "" {
		t.Fatal("engine should not be called for empty html")
	}
}

func TestExporterTimeout(t *testing.T) {
	exp := NewExporter("fake", &fakeRenderer{wait: true}, 20*time.Millisecond, discardLogger())

	out, err := exp.Export(context.Background(), "<p>x</p>", Settings{})
	if out != nil {
		t.Fatal("partial bytes must not be returned")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func requireBrowser(t *testing.T) string {
	t.Helper()
	if os.Getenv("BUILDIT_BROWSER_TESTS") == "" {
		t.Skip("set BUILDIT_BROWSER_TESTS=1 to run headless browser tests")
	}
	path, ok := launcher.LookPath()
	if !ok {
		t.Skip("chromium not found")
	}
	return path
}

func TestBrowserEngines(t *testing.T) {
	bin := requireBrowser(t)
	html := `<!DOCTYPE html><html><head></head><body><div class="resume-container"><h1>Ada</h1><p>Hello</p></div></body></html>`

	for _, name := range []string{EngineRod, EngineChromedp} {
		t.Run(name, func(t *testing.T) {
			engine, err := NewEngine(name, bin)
			if err != nil {
				t.Fatalf("engine: %v", err)
			}
			exp := NewExporter(name, engine, time.Minute, discardLogger())
			out, err := exp.Export(context.Background(), html, DefaultSettings())
			if err != nil {
				t.Fatalf("export: %v", err)
			}
			if !strings.HasPrefix(string(out), "%PDF") {
				t.Fatalf("output is not a pdf")
			}
		})
	}
}
