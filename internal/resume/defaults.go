package resume

import (
	"strings"
)

const (
	DefaultName  = "Full Name"
	DefaultTitle = "Professional Title"
)

// DefaultFormatting returns the document-level formatting used when a
// resume is created or a stored one lacks it.
func DefaultFormatting() Formatting {
	return Formatting{
		NameAlignment:         AlignCenter,
		NameWeight:            WeightBold,
		SectionTitleAlignment: AlignCenter,
		ParagraphAlignment:    AlignLeft,
	}
}

// DefaultPDFSettings returns the export settings for a new document.
func DefaultPDFSettings() PDFSettings {
	return PDFSettings{
		Margins: Margins{
			Top:    "0mm",
			Right:  "8mm",
			Bottom: "8mm",
			Left:   "8mm",
		},
		Scale:    1.0,
		PageSize: PageA4,
		Zoom:     1.15,
		Spacing:  1.3,
	}
}

func DefaultTitleFormatting() TextFormatting {
	return TextFormatting{Alignment: AlignLeft, FontSize: 16, FontWeight: WeightBold}
}

func DefaultContentFormatting() TextFormatting {
	return TextFormatting{Alignment: AlignLeft, FontSize: 14, FontWeight: WeightNormal}
}

// New returns an empty resume populated with defaults.
func New() Document {
	return Document{
		Name:        DefaultName,
		Title:       DefaultTitle,
		Sections:    []Section{},
		Formatting:  DefaultFormatting(),
		PDFSettings: DefaultPDFSettings(),
	}
}

// NewSection returns a section of the given type with one blank entry,
// matching what the editor shows when a section is added.
func NewSection(t SectionType) Section {
	s := Section{
		Type:              t,
		TitleFormatting:   DefaultTitleFormatting(),
		ContentFormatting: DefaultContentFormatting(),
	}
	switch t {
	case SectionBulletPoints:
		s.Bullets = []string{""}
	case SectionExperience:
		s.Experience = []ExperienceItem{{Period: Period{EndType: EndNone}, BulletPoints: []string{}}}
	case SectionEducation:
		s.Education = []EducationItem{{Period: Period{EndType: EndNone}}}
	}
	return s
}

// Normalize 将缺失或非法的字段替换为默认值，不返回错误。
func (d *Document) Normalize() {
	d.Formatting.normalize()
	d.PDFSettings.Normalize()

	if d.Sections == nil {
		d.Sections = []Section{}
	}
	for i := range d.Sections {
		d.Sections[i].Normalize()
	}
}

func (f *Formatting) normalize() {
	def := DefaultFormatting()
	f.NameAlignment = coerceAlignment(f.NameAlignment, def.NameAlignment, false)
	f.NameWeight = coerceWeight(f.NameWeight, def.NameWeight)
	f.SectionTitleAlignment = coerceAlignment(f.SectionTitleAlignment, def.SectionTitleAlignment, false)
	f.ParagraphAlignment = coerceAlignment(f.ParagraphAlignment, def.ParagraphAlignment, true)
}

// Normalize fills blank margins and non-positive factors with defaults.
// Bare numeric margins are read as millimetres.
func (p *PDFSettings) Normalize() {
	def := DefaultPDFSettings()
	p.Margins.Top = NormalizeMargin(p.Margins.Top, def.Margins.Top)
	p.Margins.Right = NormalizeMargin(p.Margins.Right, def.Margins.Right)
	p.Margins.Bottom = NormalizeMargin(p.Margins.Bottom, def.Margins.Bottom)
	p.Margins.Left = NormalizeMargin(p.Margins.Left, def.Margins.Left)

	if p.Scale <= 0 {
		p.Scale = def.Scale
	}
	if p.Zoom <= 0 {
		p.Zoom = def.Zoom
	}
	if p.Spacing <= 0 {
		p.Spacing = def.Spacing
	}
	p.PageSize = CoercePageSize(p.PageSize, def.PageSize)
}

// Normalize 修正 Section 的样式与条目字段。未知类型保持原样。
func (s *Section) Normalize() {
	s.TitleFormatting.normalize(DefaultTitleFormatting())
	s.ContentFormatting.normalize(DefaultContentFormatting())

	switch s.Type {
	case SectionParagraph:
	case SectionBulletPoints:
		if s.Bullets == nil {
			s.Bullets = []string{}
		}
	case SectionExperience:
		if s.Experience == nil {
			s.Experience = []ExperienceItem{}
		}
		for i := range s.Experience {
			s.Experience[i].Period.normalize()
			if s.Experience[i].BulletPoints == nil {
				s.Experience[i].BulletPoints = []string{}
			}
		}
	case SectionEducation:
		if s.Education == nil {
			s.Education = []EducationItem{}
		}
		for i := range s.Education {
			s.Education[i].Period.normalize()
		}
	}
}

func (f *TextFormatting) normalize(def TextFormatting) {
	f.Alignment = coerceAlignment(f.Alignment, def.Alignment, true)
	f.FontWeight = coerceWeight(f.FontWeight, def.FontWeight)
	switch {
	case f.FontSize == 0:
		f.FontSize = def.FontSize
	case f.FontSize < MinFontSize:
		f.FontSize = MinFontSize
	case f.FontSize > MaxFontSize:
		f.FontSize = MaxFontSize
	}
}

func (p *Period) normalize() {
	p.EndType = parseEndType(string(p.EndType))
	if p.EndType != EndSpecific {
		p.EndMonth = ""
		p.EndYear = ""
	}
}

// PruneEmptySections 原地移除没有正文也没有条目的 Section。
func (d *Document) PruneEmptySections() {
	kept := d.Sections[:0]
	for _, s := range d.Sections {
		if !s.IsEmpty() {
			kept = append(kept, s)
		}
	}
	// 清掉尾部残留引用
	for i := len(kept); i < len(d.Sections); i++ {
		d.Sections[i] = Section{}
	}
	d.Sections = kept
}

// Clone 返回 Document 的深拷贝。
func (d Document) Clone() Document {
	out := d
	if d.Sections != nil {
		out.Sections = make([]Section, len(d.Sections))
		for i, s := range d.Sections {
			out.Sections[i] = s.Clone()
		}
	}
	if d.LastUpdated != nil {
		ts := *d.LastUpdated
		out.LastUpdated = &ts
	}
	return out
}

func coerceAlignment(a Alignment, def Alignment, allowJustify bool) Alignment {
	switch Alignment(strings.ToLower(strings.TrimSpace(string(a)))) {
	case AlignLeft:
		return AlignLeft
	case AlignCenter:
		return AlignCenter
	case AlignRight:
		return AlignRight
	case AlignJustify:
		if allowJustify {
			return AlignJustify
		}
	}
	return def
}

func coerceWeight(w FontWeight, def FontWeight) FontWeight {
	switch FontWeight(strings.ToLower(strings.TrimSpace(string(w)))) {
	case WeightNormal:
		return WeightNormal
	case WeightBold:
		return WeightBold
	case WeightBolder:
		return WeightBolder
	}
	return def
}

// CoercePageSize 大小写不敏感地解析纸张尺寸，未知值返回 def。
func CoercePageSize(p PageSize, def PageSize) PageSize {
	switch strings.ToLower(strings.TrimSpace(string(p))) {
	case "a4":
		return PageA4
	case "letter":
		return PageLetter
	case "legal":
		return PageLegal
	}
	return def
}

// NormalizeMargin 返回可用的 CSS 长度：空值或含非法字符时取 def，纯数字按毫米处理。
func NormalizeMargin(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, "{};<>\"'") {
		return def
	}
	if isNumeric(v) {
		return v + "mm"
	}
	return v
}

func isNumeric(v string) bool {
	dot := false
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return v != "."
}
