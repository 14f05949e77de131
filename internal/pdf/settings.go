package pdf

import (
	"fmt"
	"strconv"
	"strings"

	"buildit/internal/resume"
)

// Settings 是导出 PDF 时注入页面的参数，字段与 /generate-pdf 请求体一致。
type Settings struct {
	Margins  resume.Margins  `json:"margins"`
	Scale    float64         `json:"scale"`
	PageSize resume.PageSize `json:"page_size"`
	Zoom     float64         `json:"zoom"`
	Spacing  float64         `json:"spacing"`
}

const defaultMargin = "8mm"

// DefaultSettings returns the settings applied to an export request that
// omits them.
func DefaultSettings() Settings {
	return Settings{
		Margins: resume.Margins{
			Top:    defaultMargin,
			Right:  defaultMargin,
			Bottom: defaultMargin,
			Left:   defaultMargin,
		},
		Scale:    1,
		PageSize: resume.PageA4,
		Zoom:     1,
		Spacing:  1,
	}
}

// FromDocument 使用简历自身保存的导出参数。
func FromDocument(p resume.PDFSettings) Settings {
	s := Settings{
		Margins:  p.Margins,
		Scale:    p.Scale,
		PageSize: p.PageSize,
		Zoom:     p.Zoom,
		Spacing:  p.Spacing,
	}
	s.Normalize()
	return s
}

// Normalize 用默认值补齐缺失或非法的字段。
func (s *Settings) Normalize() {
	def := DefaultSettings()
	s.Margins.Top = resume.NormalizeMargin(s.Margins.Top, def.Margins.Top)
	s.Margins.Right = resume.NormalizeMargin(s.Margins.Right, def.Margins.Right)
	s.Margins.Bottom = resume.NormalizeMargin(s.Margins.Bottom, def.Margins.Bottom)
	s.Margins.Left = resume.NormalizeMargin(s.Margins.Left, def.Margins.Left)
	s.PageSize = resume.CoercePageSize(s.PageSize, def.PageSize)
	if s.Scale <= 0 {
		s.Scale = def.Scale
	}
	if s.Zoom <= 0 {
		s.Zoom = def.Zoom
	}
	if s.Spacing <= 0 {
		s.Spacing = def.Spacing
	}
}

// BuildPrintCSS renders the stylesheet injected before printing. Zoom,
// line spacing and scale cannot be expressed through the browser's print
// options, so every setting goes through CSS.
func BuildPrintCSS(s Settings) string {
	s.Normalize()

	var b strings.Builder
	b.WriteString(".resume-container { margin: 0 !important; padding: 0 !important; }\n")
	b.WriteString("h1 { margin: 0 !important; }\n")
	fmt.Fprintf(&b, "@page { size: %s; margin: %s %s %s %s; }\n",
		s.PageSize, s.Margins.Top, s.Margins.Right, s.Margins.Bottom, s.Margins.Left)
	fmt.Fprintf(&b, "body { zoom: %s; line-height: %s; transform: scale(%s); transform-origin: top left; }\n",
		formatFloat(s.Zoom), formatFloat(s.Spacing), formatFloat(s.Scale))
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
