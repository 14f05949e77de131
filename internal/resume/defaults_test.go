package resume

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	d := New()
	if d.Name != "Full Name" || d.Title != "Professional Title" {
		t.Fatalf("unexpected header defaults: %q %q", d.Name, d.Title)
	}
	if d.Formatting != DefaultFormatting() {
		t.Fatalf("formatting = %+v", d.Formatting)
	}
	p := d.PDFSettings
	if p.Margins.Top != "0mm" || p.Margins.Left != "8mm" || p.Zoom != 1.15 || p.Spacing != 1.3 || p.PageSize != PageA4 {
		t.Fatalf("pdf settings = %+v", p)
	}
	if d.Sections == nil || len(d.Sections) != 0 {
		t.Fatalf("sections should be an empty slice")
	}
}

func TestNormalizeCoercesInvalidValues(t *testing.T) {
	raw := `{
		"name": "A",
		"formatting": {"name_alignment": "justify", "name_weight": "heavy", "paragraph_alignment": "JUSTIFY"},
		"pdf_settings": {"margins": {"top": "5", "right": ""}, "scale": 0, "page_size": "letter", "zoom": -1},
		"sections": [
			{"type": "paragraph", "title": "x", "content": "y",
			 "title_formatting": {"alignment": "middle", "font_size": 4, "font_weight": "bold"}},
			{"type": "experience", "title": "w", "items": [
				{"position": "p", "start_year": "2020", "end_type": "Present", "end_month": "May", "end_year": "2021"},
				{"position": "q", "start_year": "2020", "end_type": "unknown", "end_year": "2021"}
			]}
		]
	}`

	var d Document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	d.Normalize()

	if d.Formatting.NameAlignment != AlignCenter {
		t.Errorf("name alignment should reject justify, got %q", d.Formatting.NameAlignment)
	}
	if d.Formatting.NameWeight != WeightBold {
		t.Errorf("name weight = %q", d.Formatting.NameWeight)
	}
	if d.Formatting.ParagraphAlignment != AlignJustify {
		t.Errorf("paragraph alignment = %q", d.Formatting.ParagraphAlignment)
	}
	if d.Formatting.SectionTitleAlignment != AlignCenter {
		t.Errorf("section title alignment = %q", d.Formatting.SectionTitleAlignment)
	}

	p := d.PDFSettings
	if p.Margins.Top != "5mm" || p.Margins.Right != "8mm" || p.Margins.Bottom != "8mm" {
		t.Errorf("margins = %+v", p.Margins)
	}
	if p.Scale != 1 || p.Zoom != 1.15 || p.Spacing != 1.3 || p.PageSize != PageLetter {
		t.Errorf("pdf settings = %+v", p)
	}

	tf := d.Sections[0].TitleFormatting
	if tf.Alignment != AlignLeft || tf.FontSize != MinFontSize || tf.FontWeight != WeightBold {
		t.Errorf("title formatting = %+v", tf)
	}
	if d.Sections[0].ContentFormatting != DefaultContentFormatting() {
		t.Errorf("content formatting = %+v", d.Sections[0].ContentFormatting)
	}

	exp := d.Sections[1].Experience
	if exp[0].EndMonth != "" || exp[0].EndYear != "" {
		t.Errorf("end date should be cleared for Present: %+v", exp[0].Period)
	}
	if exp[1].EndType != EndNone || exp[1].EndYear != "" {
		t.Errorf("unknown end type should become None: %+v", exp[1].Period)
	}
	if exp[0].BulletPoints == nil {
		t.Errorf("bullet points should be an empty slice")
	}
}

func TestNormalizeIsStable(t *testing.T) {
	d := sampleDocument()
	d.Normalize()
	first, _ := json.Marshal(d)
	d.Normalize()
	second, _ := json.Marshal(d)
	if string(first) != string(second) {
		t.Fatalf("normalize not idempotent:\n%s\n%s", first, second)
	}
}

func TestPruneEmptySections(t *testing.T) {
	d := sampleDocument()
	d.Sections = append(d.Sections, NewSection(SectionExperience), Section{Type: SectionEducation})
	d.PruneEmptySections()

	if len(d.Sections) != 3 {
		t.Fatalf("expected 3 sections after pruning, got %d", len(d.Sections))
	}
	if d.Sections[0].Title != "Summary" || d.Sections[1].Title != "Skills" {
		t.Fatalf("unexpected sections kept: %+v", d.Sections)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := sampleDocument()
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	d.LastUpdated = &ts

	c := d.Clone()
	c.Sections[2].Bullets[0] = "changed"
	c.Sections[0].Title = "changed"
	*c.LastUpdated = time.Time{}

	if d.Sections[2].Bullets[0] != "Mathematics" || d.Sections[0].Title != "Summary" {
		t.Fatal("clone shares section data with the original")
	}
	if !d.LastUpdated.Equal(ts) {
		t.Fatal("clone shares last_updated with the original")
	}
}

func TestDocumentJSONShape(t *testing.T) {
	data, err := json.Marshal(New())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"name", "title", "contact_info", "sections", "formatting", "pdf_settings"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if _, ok := m["last_updated"]; ok {
		t.Errorf("last_updated should be omitted until saved")
	}
}
