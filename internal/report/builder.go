package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const bannerWidth = 80

// Report accumulates ordered sections of a text report.
type Report struct {
	Title    string
	Subtitle string
	sections []*Section
}

// Section is one titled block of report lines. Sections render in the order
// they were added.
type Section struct {
	Title string
	Note  string
	lines []string
}

// New creates a report with the given title.
func New(title string) *Report {
	return &Report{Title: title}
}

// AddSection appends a new section and returns it for line accumulation.
func (r *Report) AddSection(title string) *Section {
	s := &Section{Title: title}
	r.sections = append(r.sections, s)
	return s
}

// AddSectionNote appends a new section with an explanatory note under the title.
func (r *Report) AddSectionNote(title, note string) *Section {
	s := &Section{Title: title, Note: note}
	r.sections = append(r.sections, s)
	return s
}

// Sections returns the sections in insertion order.
func (r *Report) Sections() []*Section {
	return r.sections
}

// Printf appends one formatted line to the section.
func (s *Section) Printf(format string, args ...any) {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
}

// Blank appends an empty line to the section.
func (s *Section) Blank() {
	s.lines = append(s.lines, "")
}

// Lines returns the accumulated lines.
func (s *Section) Lines() []string {
	return s.lines
}

// Render produces the full report text with banner-framed title and sections.
func (r *Report) Render() string {
	var b strings.Builder
	banner := strings.Repeat("=", bannerWidth)

	b.WriteString(banner + "\n")
	b.WriteString(r.Title + "\n")
	b.WriteString(banner + "\n")
	if r.Subtitle != "" {
		b.WriteString(r.Subtitle + "\n")
	}

	for _, s := range r.sections {
		b.WriteString("\n" + banner + "\n")
		b.WriteString(s.Title + "\n")
		if s.Note != "" {
			b.WriteString(s.Note + "\n")
		}
		b.WriteString(banner + "\n")
		for _, line := range s.lines {
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

// WriteFile renders the report and writes it to path, creating parent
// directories as needed.
func WriteFile(r *Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(r.Render()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
