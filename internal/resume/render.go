package resume

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Renderer 把 Section 和 Document 转成 HTML。零值可直接使用：
// 用户文本只保留行内标记，空 Section 不参与组装。
type Renderer struct {
	// Raw 为 true 时用户文本原样插入，与旧版输出逐字节一致。
	Raw bool
	// KeepEmptySections 为 true 时 Assemble 不跳过空 Section。
	KeepEmptySections bool

	policy *bluemonday.Policy
}

var defaultPolicy = inlinePolicy()

// inlinePolicy 只放行行内标记。块级标签（li、ul、p、div）被剥掉、文字保留，
// 列表项个数因此总等于 items 个数。链接统一由 Linkify 生成。
func inlinePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "u", "s", "sub", "sup", "span", "br")
	return p
}

// NewRenderer returns a renderer; raw disables sanitizing of user text.
func NewRenderer(raw bool) *Renderer {
	return &Renderer{Raw: raw, policy: defaultPolicy}
}

func (r *Renderer) text(s string) string {
	if r.Raw {
		return s
	}
	p := r.policy
	if p == nil {
		p = defaultPolicy
	}
	return p.Sanitize(s)
}

// RenderSection returns the HTML fragment for one section. Unknown types
// render as an empty fragment.
func (r *Renderer) RenderSection(s Section) template.HTML {
	if !s.Type.Known() {
		return ""
	}

	titleFmt := s.TitleFormatting
	titleFmt.normalize(DefaultTitleFormatting())
	contentFmt := s.ContentFormatting
	contentFmt.normalize(DefaultContentFormatting())
	contentStyle := styleAttr(contentFmt)

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="section-title" style="%s">%s</div>`, styleAttr(titleFmt), r.text(s.Title))

	switch s.Type {
	case SectionParagraph:
		fmt.Fprintf(&b, `<p style="%s">%s</p>`, contentStyle, r.text(s.Content))
	case SectionBulletPoints:
		r.writeList(&b, s.Bullets, contentStyle)
	case SectionExperience:
		for _, item := range s.Experience {
			fmt.Fprintf(&b, `<p style="%s"><strong>%s</strong>`, contentStyle, r.text(item.Position))
			if item.Company != "" {
				b.WriteString(", " + r.text(item.Company))
			}
			b.WriteString(" " + r.dateSpan(item.DateFields()) + "</p>")
			r.writeList(&b, item.BulletPoints, contentStyle)
		}
	case SectionEducation:
		for _, item := range s.Education {
			fmt.Fprintf(&b, `<p style="%s"><strong>%s</strong>, %s %s</p>`,
				contentStyle, r.text(item.Degree), r.text(item.Institution), r.dateSpan(item.DateFields()))
			if item.Details != "" {
				fmt.Fprintf(&b, `<p style="%s">%s</p>`, contentStyle, r.text(item.Details))
			}
		}
	}
	return template.HTML(b.String())
}

func (r *Renderer) writeList(b *strings.Builder, items []string, style string) {
	b.WriteString("<ul>")
	for _, item := range items {
		fmt.Fprintf(b, `<li style="%s">%s</li>`, style, r.text(item))
	}
	b.WriteString("</ul>")
}

func styleAttr(f TextFormatting) string {
	return fmt.Sprintf("text-align:%s;font-size:%dpx;font-weight:%s;", f.Alignment, f.FontSize, f.FontWeight)
}

func (r *Renderer) dateSpan(f DateFields) string {
	dr := FormatDateRange(f)
	if dr == "" {
		return ""
	}
	return `<span style="float:right;">` + r.text(dr) + `</span>`
}
