// Package report compiles calculation results into a presentation-neutral
// document of ordered sections. Renditions (workbook, Markdown, HTML) are
// produced by the export package.
package report

import (
	"time"

	"github.com/bitscopic/roi-calculator/internal/model"
)

// SectionKind identifies a document section.
type SectionKind string

// Section kinds in document order.
const (
	SectionCover        SectionKind = "cover"
	SectionExecutive    SectionKind = "executive_summary"
	SectionMethodology  SectionKind = "methodology"
	SectionResults      SectionKind = "module_results"
	SectionModule       SectionKind = "module"
	SectionProjection   SectionKind = "projection"
	SectionControlGroup SectionKind = "control_group"
	SectionContract     SectionKind = "contract"
	SectionSensitivity  SectionKind = "sensitivity"
	SectionAppendix     SectionKind = "appendix"
)

// Document is a compiled report.
type Document struct {
	ID           string
	Title        string
	Subtitle     string
	Product      model.Product
	Organization model.OrganizationProfile
	GeneratedAt  time.Time
	Sections     []Section
}

// Section returns the first section of the given kind.
func (d *Document) Section(kind SectionKind) (Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Kinds lists section kinds in order, one entry per section.
func (d *Document) Kinds() []SectionKind {
	out := make([]SectionKind, len(d.Sections))
	for i, s := range d.Sections {
		out[i] = s.Kind
	}
	return out
}

// Tables returns every table in the document in order.
func (d *Document) Tables() []Table {
	var out []Table
	for _, s := range d.Sections {
		for _, b := range s.Blocks {
			if t, ok := b.(Table); ok {
				out = append(out, t)
			}
		}
	}
	return out
}

// Section is a titled run of blocks. Module is set for per-module sections.
type Section struct {
	Kind   SectionKind
	Title  string
	Module model.ModuleID
	Blocks []Block
}

// Block is one of Paragraph, Bullets, Table or Chart.
type Block interface {
	isBlock()
}

// Paragraph is a run of prose.
type Paragraph struct {
	Text string
}

// Bullets is an unordered list.
type Bullets struct {
	Items []string
}

// Table is a captioned grid of preformatted cells.
type Table struct {
	Caption string
	Columns []string
	Rows    [][]string
}

// Chart is a resolved chart request.
type Chart struct {
	Request ChartRequest
	Image   Image
}

func (Paragraph) isBlock() {}
func (Bullets) isBlock()   {}
func (Table) isBlock()     {}
func (Chart) isBlock()     {}
