package resume

import (
	"time"
)

// Document 是一份简历的完整结构化表示，按 email 持久化。
type Document struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	ContactInfo string      `json:"contact_info"`
	Sections    []Section   `json:"sections"`
	Formatting  Formatting  `json:"formatting"`
	PDFSettings PDFSettings `json:"pdf_settings"`
	LastUpdated *time.Time  `json:"last_updated,omitempty"`
	Email       string      `json:"email,omitempty"`
}

// SectionType 区分 Section 的内容形态。
type SectionType string

const (
	SectionParagraph    SectionType = "paragraph"
	SectionBulletPoints SectionType = "bullet_points"
	SectionExperience   SectionType = "experience"
	SectionEducation    SectionType = "education"
)

// Known 判断类型是否为渲染器支持的四种之一。
func (t SectionType) Known() bool {
	switch t {
	case SectionParagraph, SectionBulletPoints, SectionExperience, SectionEducation:
		return true
	}
	return false
}

type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

type FontWeight string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
	WeightBolder FontWeight = "bolder"
)

// EndType 描述经历条目的结束方式。
type EndType string

const (
	EndNone     EndType = "None"
	EndPresent  EndType = "Present"
	EndSpecific EndType = "Specific Month"
)

type PageSize string

const (
	PageA4     PageSize = "A4"
	PageLetter PageSize = "Letter"
	PageLegal  PageSize = "Legal"
)

const (
	MinFontSize = 10
	MaxFontSize = 32
)

// Formatting 是整份简历的全局排版选项。
type Formatting struct {
	NameAlignment         Alignment  `json:"name_alignment"`
	NameWeight            FontWeight `json:"name_weight"`
	SectionTitleAlignment Alignment  `json:"section_title_alignment"`
	ParagraphAlignment    Alignment  `json:"paragraph_alignment"`
}

// TextFormatting 是单个 Section 标题或正文的样式。
type TextFormatting struct {
	Alignment  Alignment  `json:"alignment"`
	FontSize   int        `json:"font_size"`
	FontWeight FontWeight `json:"font_weight"`
}

// Margins 使用 CSS 长度字符串，例如 "8mm"。
type Margins struct {
	Top    string `json:"top"`
	Right  string `json:"right"`
	Bottom string `json:"bottom"`
	Left   string `json:"left"`
}

// PDFSettings 描述导出 PDF 时注入的页面参数。
type PDFSettings struct {
	Margins  Margins  `json:"margins"`
	Scale    float64  `json:"scale"`
	PageSize PageSize `json:"page_size"`
	Zoom     float64  `json:"zoom"`
	Spacing  float64  `json:"spacing"`
}

// Period 是经历/教育条目共享的起止时间字段。
type Period struct {
	StartMonth LooseString `json:"start_month"`
	StartYear  LooseString `json:"start_year"`
	EndType    EndType     `json:"end_type"`
	EndMonth   LooseString `json:"end_month"`
	EndYear    LooseString `json:"end_year"`
}

// ExperienceItem 对应 experience 类型 Section 的一条记录。
type ExperienceItem struct {
	Position string `json:"position"`
	Company  string `json:"company"`
	Period
	BulletPoints []string `json:"bullet_points"`
}

// EducationItem 对应 education 类型 Section 的一条记录。
type EducationItem struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Period
	Details string `json:"details"`
}
