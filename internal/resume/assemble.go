package resume

import (
	"bytes"
	"fmt"
	"html/template"
)

// pageTemplate 是唯一的页面模板。打印样式与屏幕样式一致，暗色模式仅用于在线预览。
var pageTemplate = template.Must(template.New("resume").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.PlainName}} - {{.PlainTitle}} Resume</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.3;
            color: #000;
            background: #fff;
            padding: 0;
            margin: 0;
        }
        @media (prefers-color-scheme: dark) {
            body {
                color: #eee;
                background: #222;
            }
            .resume-container {
                background: #222;
                color: #eee;
            }
            a {
                color: #8ab4f8;
            }
            .section-title, h1, h2 {
                border-color: #444;
            }
        }
        .resume-container {
            max-width: 800px;
            margin: auto;
            padding: 25px;
            border: none;
        }
        h1, h2 {
            text-align: {{.NameAlignment}};
            margin-bottom: 5px;
        }
        h1 {
            font-size: 24px;
            font-weight: {{.NameWeight}};
        }
        h2 {
            font-size: 16px;
            font-weight: normal;
        }
        .section-title {
            font-weight: bold;
            margin-top: 20px;
            border-bottom: 1px solid #000;
            padding-bottom: 3px;
            text-align: {{.SectionTitleAlignment}};
        }
        ul {
            margin: 0;
            padding-left: 20px;
        }
        p {
            margin: 6px 0;
            text-align: {{.ParagraphAlignment}};
        }
        .contact {
            text-align: center;
            font-size: 14px;
        }
        a {
            color: #000;
            text-decoration: none;
        }
        @media print {
            body {
                padding: 0;
                margin: 0;
                color: #000;
                background: #fff;
            }
            .resume-container {
                padding: 20px;
                max-width: 100%;
                background: #fff;
                color: #000;
            }
            a {
                color: #000;
            }
            .section-title, h1, h2 {
                border-color: #000;
            }
        }
    </style>
</head>
<body>
    <div class="resume-container">
        <h1>{{.Name}}</h1>
        <h2>{{.Title}}</h2>
        <div class="contact">
            {{.Contact}}
        </div>
        {{range .Sections}}{{.}}{{end}}
    </div>
</body>
</html>
`))

type pageView struct {
	PlainName  string
	PlainTitle string

	Name    template.HTML
	Title   template.HTML
	Contact template.HTML

	NameAlignment         template.CSS
	NameWeight            template.CSS
	SectionTitleAlignment template.CSS
	ParagraphAlignment    template.CSS

	Sections []template.HTML
}

// Assemble 生成完整的 HTML 页面。输入不会被修改，相同输入总是得到相同输出。
func (r *Renderer) Assemble(d Document) (string, error) {
	doc := d.Clone()
	doc.Normalize()

	view := pageView{
		PlainName:             doc.Name,
		PlainTitle:            doc.Title,
		Name:                  template.HTML(r.text(doc.Name)),
		Title:                 template.HTML(r.text(doc.Title)),
		Contact:               template.HTML(Linkify(r.text(doc.ContactInfo))),
		NameAlignment:         template.CSS(doc.Formatting.NameAlignment),
		NameWeight:            template.CSS(doc.Formatting.NameWeight),
		SectionTitleAlignment: template.CSS(doc.Formatting.SectionTitleAlignment),
		ParagraphAlignment:    template.CSS(doc.Formatting.ParagraphAlignment),
		Sections:              make([]template.HTML, 0, len(doc.Sections)),
	}
	for _, s := range doc.Sections {
		if s.IsEmpty() && !r.KeepEmptySections {
			continue
		}
		view.Sections = append(view.Sections, r.RenderSection(s))
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("assemble resume page: %w", err)
	}
	return buf.String(), nil
}
