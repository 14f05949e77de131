package resume

import (
	"encoding/json"
	"strings"
	"testing"
)

func sampleDocument() Document {
	d := New()
	d.Name = "Ada Lovelace"
	d.Title = "Analyst"
	d.ContactInfo = "ada@example.com | https://example.com/ada"

	summary := NewSection(SectionParagraph)
	summary.Title = "Summary"
	summary.Content = "First programmer."

	empty := NewSection(SectionParagraph)

	skills := NewSection(SectionBulletPoints)
	skills.Title = "Skills"
	skills.Bullets = []string{"Mathematics", "Engines"}

	d.Sections = []Section{summary, empty, skills}
	return d
}

func TestAssembleIsIdempotent(t *testing.T) {
	r := NewRenderer(false)
	d := sampleDocument()

	first, err := r.Assemble(d)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	second, err := r.Assemble(d)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if first != second {
		t.Fatal("assemble output differs between calls")
	}
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	d := sampleDocument()
	d.Formatting = Formatting{}
	before, _ := json.Marshal(d)

	if _, err := NewRenderer(false).Assemble(d); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	after, _ := json.Marshal(d)
	if string(before) != string(after) {
		t.Fatalf("document mutated:\nbefore=%s\nafter=%s", before, after)
	}
}

func TestAssembleSkipsEmptySections(t *testing.T) {
	d := sampleDocument()

	out, err := NewRenderer(false).Assemble(d)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if got := strings.Count(out, `class="section-title"`); got != 2 {
		t.Fatalf("expected 2 rendered sections, got %d", got)
	}

	keep := &Renderer{KeepEmptySections: true}
	out, err = keep.Assemble(d)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if got := strings.Count(out, `class="section-title"`); got != 3 {
		t.Fatalf("expected 3 rendered sections when keeping empties, got %d", got)
	}
}

func TestAssembleSectionOrderAndHeader(t *testing.T) {
	out, err := NewRenderer(false).Assemble(sampleDocument())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	for _, want := range []string{
		"<title>Ada Lovelace - Analyst Resume</title>",
		"<h1>Ada Lovelace</h1>",
		"<h2>Analyst</h2>",
		`<a href="https://example.com/ada" target="_blank" rel="noopener noreferrer">https://example.com/ada</a>`,
		"text-align: center;",
		"font-weight: bold;",
		"@media print",
		"prefers-color-scheme: dark",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("assembled page missing %q", want)
		}
	}
	if strings.Index(out, ">Summary<") > strings.Index(out, ">Skills<") {
		t.Fatal("sections rendered out of order")
	}
}

func TestAssembleEscapesTitleTag(t *testing.T) {
	d := sampleDocument()
	d.Name = `</title><script>alert(1)</script>`

	out, err := NewRenderer(false).Assemble(d)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("script leaked into page: %s", out)
	}
}
