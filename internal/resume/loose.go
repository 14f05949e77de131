package resume

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// 叶子字段（文本、年月、枚举、字号、导出参数）在存量数据和模型输出里写法不一，
// 形态不符时一律回落为空值，由 Normalize 补默认值。数组与对象这类结构错误仍然报错。

// looseText 把任意 JSON 值折成文本：字符串原样，数字按十进制，
// 字符串数组按行拼接，其余形态（对象、布尔、null）为空。
func looseText(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ""
		}
		return s
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(data, &parts); err != nil {
			return ""
		}
		lines := make([]string, 0, len(parts))
		for _, p := range parts {
			if text := looseText(p); text != "" {
				lines = append(lines, text)
			}
		}
		return strings.Join(lines, "\n")
	case '{', 'n', 't', 'f':
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return ""
		}
		if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return strconv.FormatInt(int64(f), 10)
		}
		return n.String()
	}
}

// looseFloat 接受数字或数字字符串（可带 px 后缀），无法解析时为 0。
func looseFloat(data []byte) float64 {
	text := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(looseText(data)), "px"))
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// looseFields 把 JSON 对象拆成字段表；不是对象时返回 nil，调用方保留原值。
func looseFields(data []byte) map[string]json.RawMessage {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

// LooseString 兼容历史数据与模型输出中年份/月份字段的多种写法：
// 字符串、数字或 null。字符串 "None" 视为空值，其他形态也视为空值。
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(looseText(data))
	if raw == "None" {
		raw = ""
	}
	*s = LooseString(raw)
	return nil
}

// MarshalJSON 将空值编码为 null，保持 "缺省即 null" 的存储约定。
func (s LooseString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

func (s LooseString) String() string { return string(s) }

func (s LooseString) IsZero() bool { return strings.TrimSpace(string(s)) == "" }

// UnmarshalJSON 接受大小写不一致、缺失或形态不符的结束类型，后两者视为 None。
func (e *EndType) UnmarshalJSON(data []byte) error {
	*e = parseEndType(looseText(data))
	return nil
}

func parseEndType(raw string) EndType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "present":
		return EndPresent
	case "specific month", "specific_month", "specific":
		return EndSpecific
	default:
		return EndNone
	}
}

// UnmarshalJSON 只覆盖出现的字段；font_size 可以是浮点数或字符串，无法解析时交给 Normalize。
func (f *TextFormatting) UnmarshalJSON(data []byte) error {
	fields := looseFields(data)
	if raw, ok := fields["alignment"]; ok {
		f.Alignment = Alignment(strings.TrimSpace(looseText(raw)))
	}
	if raw, ok := fields["font_size"]; ok {
		f.FontSize = clampInt(looseFloat(raw))
	}
	if raw, ok := fields["font_weight"]; ok {
		f.FontWeight = FontWeight(strings.TrimSpace(looseText(raw)))
	}
	return nil
}

func (f *Formatting) UnmarshalJSON(data []byte) error {
	fields := looseFields(data)
	if raw, ok := fields["name_alignment"]; ok {
		f.NameAlignment = Alignment(strings.TrimSpace(looseText(raw)))
	}
	if raw, ok := fields["name_weight"]; ok {
		f.NameWeight = FontWeight(strings.TrimSpace(looseText(raw)))
	}
	if raw, ok := fields["section_title_alignment"]; ok {
		f.SectionTitleAlignment = Alignment(strings.TrimSpace(looseText(raw)))
	}
	if raw, ok := fields["paragraph_alignment"]; ok {
		f.ParagraphAlignment = Alignment(strings.TrimSpace(looseText(raw)))
	}
	return nil
}

// UnmarshalJSON 只覆盖出现的边；单个字符串或数字同时作用于四边。
func (m *Margins) UnmarshalJSON(data []byte) error {
	fields := looseFields(data)
	if fields == nil {
		if all := strings.TrimSpace(looseText(data)); all != "" && !strings.Contains(all, "\n") {
			*m = Margins{Top: all, Right: all, Bottom: all, Left: all}
		}
		return nil
	}
	for key, dst := range map[string]*string{"top": &m.Top, "right": &m.Right, "bottom": &m.Bottom, "left": &m.Left} {
		if raw, ok := fields[key]; ok {
			*dst = strings.TrimSpace(looseText(raw))
		}
	}
	return nil
}

func (p *PDFSettings) UnmarshalJSON(data []byte) error {
	fields := looseFields(data)
	if raw, ok := fields["margins"]; ok {
		if err := p.Margins.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	if raw, ok := fields["scale"]; ok {
		p.Scale = looseFloat(raw)
	}
	if raw, ok := fields["page_size"]; ok {
		p.PageSize = PageSize(strings.TrimSpace(looseText(raw)))
	}
	if raw, ok := fields["zoom"]; ok {
		p.Zoom = looseFloat(raw)
	}
	if raw, ok := fields["spacing"]; ok {
		p.Spacing = looseFloat(raw)
	}
	return nil
}

// UnmarshalJSON 文本字段容忍数字等写法；条目本身不是对象、bullet_points 不是数组时报错。
func (it *ExperienceItem) UnmarshalJSON(data []byte) error {
	var wire struct {
		Position json.RawMessage `json:"position"`
		Company  json.RawMessage `json:"company"`
		Period
		BulletPoints []LooseText `json:"bullet_points"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*it = ExperienceItem{
		Position:     looseText(wire.Position),
		Company:      looseText(wire.Company),
		Period:       wire.Period,
		BulletPoints: textSlice(wire.BulletPoints),
	}
	return nil
}

func (it *EducationItem) UnmarshalJSON(data []byte) error {
	var wire struct {
		Degree      json.RawMessage `json:"degree"`
		Institution json.RawMessage `json:"institution"`
		Period
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*it = EducationItem{
		Degree:      looseText(wire.Degree),
		Institution: looseText(wire.Institution),
		Period:      wire.Period,
		Details:     looseText(wire.Details),
	}
	return nil
}

// LooseText 是列表元素用的宽松文本，与 LooseString 不同，它保留原文空白与 "None"。
type LooseText string

func (t *LooseText) UnmarshalJSON(data []byte) error {
	*t = LooseText(looseText(data))
	return nil
}

func textSlice(in []LooseText) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, t := range in {
		out[i] = string(t)
	}
	return out
}

// clampInt 把浮点数转成 int，越界值先截到 int32 范围，避免实现相关的转换结果。
func clampInt(v float64) int {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}
