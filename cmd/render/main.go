// render 在命令行把简历 JSON 或现成的 HTML 页面导出为 PDF。
//
//	render -resume resume.json -out resume.pdf
//	render -html page.html -out resume.pdf -page-size Letter -margin 10mm
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"buildit/internal/pdf"
	"buildit/internal/resume"
)

func main() {
	var (
		htmlPath   = flag.String("html", "", "待导出的 HTML 文件（与 -resume 二选一）")
		resumePath = flag.String("resume", "", "简历 JSON 文件，先组装为 HTML 再导出")
		outPath    = flag.String("out", "resume.pdf", "输出 PDF 路径")
		htmlOut    = flag.String("html-out", "", "同时保存组装后的 HTML（仅 -resume 模式）")
		engineName = flag.String("engine", pdf.EngineRod, "渲染引擎：rod 或 chromedp")
		chromeBin  = flag.String("chrome", os.Getenv("CHROME_PATH"), "Chromium 可执行文件路径（可选）")
		timeout    = flag.Duration("timeout", 60*time.Second, "单次渲染超时")
		raw        = flag.Bool("raw", false, "不清洗用户文本，原样输出 HTML")
		pageSize   = flag.String("page-size", "", "纸张尺寸：A4、Letter、Legal")
		margin     = flag.String("margin", "", "四边统一页边距，例如 8mm")
		scale      = flag.Float64("scale", 0, "缩放比例")
		zoom       = flag.Float64("zoom", 0, "页面 zoom")
		spacing    = flag.Float64("spacing", 0, "行高")
	)
	flag.Parse()

	if (*htmlPath == "") == (*resumePath == "") {
		log.Fatal("exactly one of -html or -resume is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var (
		page     string
		settings pdf.Settings
	)
	if *resumePath != "" {
		doc, err := loadResume(*resumePath)
		if err != nil {
			log.Fatalf("load resume: %v", err)
		}
		page, err = resume.NewRenderer(*raw).Assemble(doc)
		if err != nil {
			log.Fatalf("assemble resume: %v", err)
		}
		if *htmlOut != "" {
			if err := os.WriteFile(*htmlOut, []byte(page), 0o644); err != nil {
				log.Fatalf("write html: %v", err)
			}
		}
		settings = pdf.FromDocument(doc.PDFSettings)
	} else {
		data, err := os.ReadFile(*htmlPath)
		if err != nil {
			log.Fatalf("read html: %v", err)
		}
		page = string(data)
		settings = pdf.DefaultSettings()
	}

	// 只覆盖命令行显式给出的参数
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "page-size":
			settings.PageSize = resume.PageSize(*pageSize)
		case "margin":
			settings.Margins = resume.Margins{Top: *margin, Right: *margin, Bottom: *margin, Left: *margin}
		case "scale":
			settings.Scale = *scale
		case "zoom":
			settings.Zoom = *zoom
		case "spacing":
			settings.Spacing = *spacing
		}
	})

	engine, err := pdf.NewEngine(*engineName, *chromeBin)
	if err != nil {
		log.Fatalf("init pdf engine: %v", err)
	}
	exporter := pdf.NewExporter(*engineName, engine, *timeout, logger)

	out, err := exporter.Export(context.Background(), page, settings)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		log.Fatalf("write pdf: %v", err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", *outPath, len(out))
}

func loadResume(path string) (resume.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return resume.Document{}, err
	}
	doc := resume.New()
	if err := json.Unmarshal(data, &doc); err != nil {
		return resume.Document{}, fmt.Errorf("decode %s: %w", path, err)
	}
	doc.Normalize()
	return doc, nil
}
