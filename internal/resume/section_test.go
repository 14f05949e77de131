package resume

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestSectionUnmarshalLegacyFormatting(t *testing.T) {
	raw := `{
		"type": "paragraph",
		"title": "Summary",
		"content": "Hello",
		"formatting": {"alignment": "center", "font_size": 18.0, "font_weight": "bold"}
	}`

	var s Section
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := TextFormatting{Alignment: AlignCenter, FontSize: 18, FontWeight: WeightBold}
	if s.TitleFormatting != want || s.ContentFormatting != want {
		t.Fatalf("legacy formatting not split: title=%+v content=%+v", s.TitleFormatting, s.ContentFormatting)
	}
	if s.Content != "Hello" {
		t.Fatalf("content = %q", s.Content)
	}
}

func TestSectionUnmarshalSplitFormattingWins(t *testing.T) {
	raw := `{
		"type": "paragraph",
		"title": "Summary",
		"content": "x",
		"formatting": {"alignment": "right", "font_size": 20, "font_weight": "bold"},
		"title_formatting": {"alignment": "left", "font_size": 16, "font_weight": "bold"}
	}`

	var s Section
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.TitleFormatting.Alignment != AlignLeft {
		t.Fatalf("title alignment = %q", s.TitleFormatting.Alignment)
	}
	if s.ContentFormatting != (TextFormatting{}) {
		t.Fatalf("content formatting should stay unset, got %+v", s.ContentFormatting)
	}
}

func TestSectionUnmarshalLooseDates(t *testing.T) {
	raw := `{
		"type": "experience",
		"title": "Work",
		"items": [{
			"position": "Dev",
			"company": "Acme",
			"start_month": "March",
			"start_year": 2022,
			"end_type": "Present",
			"end_month": null,
			"end_year": "None",
			"bullet_points": ["a", "b"]
		}]
	}`

	var s Section
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(s.Experience) != 1 {
		t.Fatalf("expected 1 experience item, got %d", len(s.Experience))
	}
	item := s.Experience[0]
	if item.StartYear != "2022" || item.EndYear != "" || item.EndType != EndPresent {
		t.Fatalf("unexpected period: %+v", item.Period)
	}
}

func TestSectionRoundTrip(t *testing.T) {
	in := []Section{
		{Type: SectionParagraph, Title: "About", Content: "text",
			TitleFormatting: DefaultTitleFormatting(), ContentFormatting: DefaultContentFormatting()},
		{Type: SectionBulletPoints, Title: "Skills", Bullets: []string{"Go", "", "SQL"},
			TitleFormatting: DefaultTitleFormatting(), ContentFormatting: DefaultContentFormatting()},
		{Type: SectionEducation, Title: "Education", Education: []EducationItem{{
			Degree: "BSc", Institution: "Uni",
			Period:  Period{StartYear: "2015", EndType: EndSpecific, EndYear: "2019"},
			Details: "Honours",
		}}, TitleFormatting: DefaultTitleFormatting(), ContentFormatting: DefaultContentFormatting()},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out []Section
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}
}

func TestSectionWireShape(t *testing.T) {
	data, err := json.Marshal(Section{Type: SectionBulletPoints, Title: "Skills"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, `"items":[]`) {
		t.Fatalf("bullet section should encode empty items array: %s", got)
	}
	if strings.Contains(got, `"content"`) {
		t.Fatalf("bullet section must not carry content: %s", got)
	}
}

func TestUnknownSectionSurvivesRoundTrip(t *testing.T) {
	raw := `{"type":"projects","title":"Side","items":[{"name":"x"}]}`

	var s Section
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.IsEmpty() {
		t.Fatal("unknown section with items should not be empty")
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"items":[{"name":"x"}]`) {
		t.Fatalf("raw items lost: %s", data)
	}
	if got := NewRenderer(false).RenderSection(s); got != "" {
		t.Fatalf("unknown section should render empty, got %q", got)
	}
}

func TestSectionIsEmpty(t *testing.T) {
	cases := []struct {
		name string
		s    Section
		want bool
	}{
		{"blank paragraph", Section{Type: SectionParagraph, Content: "  "}, true},
		{"titled but blank paragraph", Section{Type: SectionParagraph, Title: "About"}, true},
		{"paragraph", Section{Type: SectionParagraph, Content: "x"}, false},
		{"no bullets", Section{Type: SectionBulletPoints, Bullets: []string{}}, true},
		{"one blank bullet", Section{Type: SectionBulletPoints, Bullets: []string{""}}, false},
		{"no experience", Section{Type: SectionExperience}, true},
	}
	for _, tc := range cases {
		if got := tc.s.IsEmpty(); got != tc.want {
			t.Errorf("%s: IsEmpty() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLeafValuesFallBackToDefaults(t *testing.T) {
	raw := `{
		"name": "Ada",
		"formatting": {"name_alignment": 5, "name_weight": ["bold"]},
		"pdf_settings": {"margins": "10mm", "scale": "1.2", "zoom": "wide", "page_size": {"w": 1}},
		"sections": [
			{"type": "bullet_points", "title": 2024, "items": ["Go", {"text": "Rust"}, 42, null],
			 "title_formatting": {"alignment": "left", "font_size": "large", "font_weight": true},
			 "content_formatting": "compact"},
			{"type": "experience", "title": "Work", "items": [
				{"position": 7, "company": ["Acme", "Labs"], "start_month": {"m": 3}, "start_year": true,
				 "end_type": 3, "end_year": 2021, "bullet_points": ["shipped", false]}
			]},
			{"type": "education", "title": "School", "items": [
				{"degree": "BSc", "institution": null, "start_year": 2015.0, "end_type": ["Present"], "details": 1}
			]}
		]
	}`

	d := New()
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("leaf shape errors should not fail the decode: %v", err)
	}
	d.Normalize()

	if d.Formatting != DefaultFormatting() {
		t.Errorf("formatting = %+v", d.Formatting)
	}
	p := d.PDFSettings
	if p.Margins.Top != "10mm" || p.Margins.Left != "10mm" || p.Scale != 1.2 || p.Zoom != 1.15 || p.PageSize != PageA4 {
		t.Errorf("pdf settings = %+v", p)
	}

	bullets := d.Sections[0]
	if bullets.Title != "2024" {
		t.Errorf("title = %q", bullets.Title)
	}
	if want := []string{"Go", "", "42", ""}; !reflect.DeepEqual(bullets.Bullets, want) {
		t.Errorf("bullets = %q, want %q", bullets.Bullets, want)
	}
	if tf := bullets.TitleFormatting; tf.Alignment != AlignLeft || tf.FontSize != 16 || tf.FontWeight != WeightBold {
		t.Errorf("title formatting = %+v", tf)
	}
	if bullets.ContentFormatting != DefaultContentFormatting() {
		t.Errorf("content formatting = %+v", bullets.ContentFormatting)
	}

	exp := d.Sections[1].Experience[0]
	if exp.Position != "7" || exp.Company != "Acme\nLabs" {
		t.Errorf("experience text = %q / %q", exp.Position, exp.Company)
	}
	if exp.StartMonth != "" || exp.StartYear != "" || exp.EndType != EndNone || exp.EndYear != "" {
		t.Errorf("experience period = %+v", exp.Period)
	}
	if want := []string{"shipped", ""}; !reflect.DeepEqual(exp.BulletPoints, want) {
		t.Errorf("experience bullets = %q", exp.BulletPoints)
	}

	edu := d.Sections[2].Education[0]
	if edu.Institution != "" || edu.StartYear != "2015" || edu.EndType != EndPresent || edu.Details != "1" {
		t.Errorf("education = %+v", edu)
	}
}

func TestPartialSettingsKeepExistingValues(t *testing.T) {
	d := New()
	if err := json.Unmarshal([]byte(`{"pdf_settings": {"zoom": 2, "margins": {"top": "1mm"}}, "formatting": {"name_weight": "normal"}}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := New().PDFSettings
	want.Zoom = 2
	want.Margins.Top = "1mm"
	if d.PDFSettings != want {
		t.Fatalf("pdf settings = %+v, want %+v", d.PDFSettings, want)
	}
	if d.Formatting.NameWeight != WeightNormal || d.Formatting.NameAlignment != AlignCenter {
		t.Fatalf("formatting = %+v", d.Formatting)
	}
}

func TestStructuralErrorsStillFail(t *testing.T) {
	cases := map[string]string{
		"items not a list":         `{"type": "bullet_points", "title": "x", "items": "Go, Rust"}`,
		"experience item a string": `{"type": "experience", "title": "x", "items": ["Engineer at Acme"]}`,
		"bullet points not a list": `{"type": "experience", "title": "x", "items": [{"position": "p", "bullet_points": "did things"}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var s Section
			if err := json.Unmarshal([]byte(raw), &s); err == nil {
				t.Fatalf("expected a decode error, got %+v", s)
			}
		})
	}
}
