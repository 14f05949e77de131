package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Section 是按 Type 区分的联合类型：每种类型只有对应的负载字段生效。
//
//	paragraph     -> Content
//	bullet_points -> Bullets
//	experience    -> Experience
//	education     -> Education
//
// 线上 JSON 仍沿用 content/items 两个共享字段，由 MarshalJSON/UnmarshalJSON 负责映射。
type Section struct {
	Type              SectionType
	Title             string
	TitleFormatting   TextFormatting
	ContentFormatting TextFormatting

	Content    string
	Bullets    []string
	Experience []ExperienceItem
	Education  []EducationItem

	// 未知类型原样保留，保证读写往返不丢数据。
	rawItems json.RawMessage
}

type sectionWire struct {
	Type              SectionType     `json:"type"`
	Title             string          `json:"title"`
	Content           *string         `json:"content,omitempty"`
	Items             json.RawMessage `json:"items,omitempty"`
	TitleFormatting   *TextFormatting `json:"title_formatting,omitempty"`
	ContentFormatting *TextFormatting `json:"content_formatting,omitempty"`
	// 旧版数据只有一个 formatting 字段，同时作用于标题与正文。
	Formatting *TextFormatting `json:"formatting,omitempty"`
}

// MarshalJSON 按类型输出 content 或 items。
func (s Section) MarshalJSON() ([]byte, error) {
	wire := sectionWire{
		Type:              s.Type,
		Title:             s.Title,
		TitleFormatting:   &s.TitleFormatting,
		ContentFormatting: &s.ContentFormatting,
	}

	var (
		items any
		err   error
	)
	switch s.Type {
	case SectionParagraph:
		content := s.Content
		wire.Content = &content
	case SectionBulletPoints:
		items = nonNil(s.Bullets)
	case SectionExperience:
		items = nonNil(s.Experience)
	case SectionEducation:
		items = nonNil(s.Education)
	default:
		if s.Content != "" {
			content := s.Content
			wire.Content = &content
		}
		wire.Items = s.rawItems
	}

	if items != nil {
		wire.Items, err = json.Marshal(items)
		if err != nil {
			return nil, fmt.Errorf("encode %s items: %w", s.Type, err)
		}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON 解析线上格式并兼容旧版的单一 formatting 字段。
func (s *Section) UnmarshalJSON(data []byte) error {
	// 标题与正文是叶子字段，数字等写法折成文本
	var wire struct {
		sectionWire
		Title   LooseText  `json:"title"`
		Content *LooseText `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	out := Section{
		Type:  SectionType(strings.TrimSpace(string(wire.Type))),
		Title: string(wire.Title),
	}
	if wire.Content != nil {
		out.Content = string(*wire.Content)
	}

	switch {
	case wire.TitleFormatting != nil || wire.ContentFormatting != nil:
		if wire.TitleFormatting != nil {
			out.TitleFormatting = *wire.TitleFormatting
		}
		if wire.ContentFormatting != nil {
			out.ContentFormatting = *wire.ContentFormatting
		}
	case wire.Formatting != nil:
		out.TitleFormatting = *wire.Formatting
		out.ContentFormatting = *wire.Formatting
	}

	items := bytes.TrimSpace(wire.Items)
	hasItems := len(items) > 0 && !bytes.Equal(items, []byte("null"))

	switch out.Type {
	case SectionParagraph:
	case SectionBulletPoints:
		if hasItems {
			var bullets []LooseText
			if err := json.Unmarshal(items, &bullets); err != nil {
				return fmt.Errorf("decode bullet_points items: %w", err)
			}
			out.Bullets = textSlice(bullets)
		}
	case SectionExperience:
		if hasItems {
			if err := json.Unmarshal(items, &out.Experience); err != nil {
				return fmt.Errorf("decode experience items: %w", err)
			}
		}
	case SectionEducation:
		if hasItems {
			if err := json.Unmarshal(items, &out.Education); err != nil {
				return fmt.Errorf("decode education items: %w", err)
			}
		}
	default:
		if hasItems {
			out.rawItems = append(json.RawMessage(nil), items...)
		}
	}

	*s = out
	return nil
}

// ItemCount 返回当前类型下生效的条目数量。
func (s Section) ItemCount() int {
	switch s.Type {
	case SectionBulletPoints:
		return len(s.Bullets)
	case SectionExperience:
		return len(s.Experience)
	case SectionEducation:
		return len(s.Education)
	default:
		return 0
	}
}

// IsEmpty 判断 Section 是否既无正文也无条目。
func (s Section) IsEmpty() bool {
	if s.Type == SectionParagraph {
		return strings.TrimSpace(s.Content) == ""
	}
	if s.Type.Known() {
		return s.ItemCount() == 0
	}
	return strings.TrimSpace(s.Content) == "" && len(s.rawItems) == 0
}

// Clone 深拷贝 Section，避免多个 Document 共享切片。
func (s Section) Clone() Section {
	out := s
	out.Bullets = cloneStrings(s.Bullets)
	if s.Experience != nil {
		out.Experience = make([]ExperienceItem, len(s.Experience))
		for i, item := range s.Experience {
			item.BulletPoints = cloneStrings(item.BulletPoints)
			out.Experience[i] = item
		}
	}
	if s.Education != nil {
		out.Education = append([]EducationItem(nil), s.Education...)
	}
	if s.rawItems != nil {
		out.rawItems = append(json.RawMessage(nil), s.rawItems...)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
