package rules

import (
	"strconv"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"golang.org/x/net/html"
)

// dataTables returns visible tables not marked as layout.
func dataTables(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, t := range doc.Select("table") {
		if dom.IsHidden(t) || hasRole(t, "presentation", "none") {
			continue
		}
		out = append(out, t)
	}
	return out
}

// tableRows returns the rows owned by table, skipping nested tables.
func tableRows(table *html.Node) []*html.Node {
	var out []*html.Node
	for _, tr := range dom.Descendants(table, "tr") {
		if dom.Closest(tr, "table") == table {
			out = append(out, tr)
		}
	}
	return out
}

// rowCells returns the td and th children of a row.
func rowCells(tr *html.Node) []*html.Node {
	var out []*html.Node
	for _, c := range dom.ChildElements(tr) {
		if c.Data == "td" || c.Data == "th" {
			out = append(out, c)
		}
	}
	return out
}

// cellCounts counts td and th cells owned by table.
func cellCounts(table *html.Node) (td, th int) {
	for _, tr := range tableRows(table) {
		for _, c := range rowCells(tr) {
			if c.Data == "td" {
				td++
			} else {
				th++
			}
		}
	}
	return td, th
}

var missingTableHeaderInfo = a11y.RuleInfo{
	ID:              "missing-table-header",
	Message:         "Data table has no header cells",
	Description:     "Without th cells, screen readers cannot announce which row or column a data cell belongs to.",
	WCAGCriterion:   "1.3.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Mark up header cells with <th> and a scope attribute.",
}

type missingTableHeader struct{ rule }

func (r missingTableHeader) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, t := range dataTables(doc) {
		td, th := cellCounts(t)
		if td > 0 && th == 0 {
			issues = append(issues, r.issue(t, map[string]string{
				"rows":  strconv.Itoa(len(tableRows(t))),
				"cells": strconv.Itoa(td),
			}))
		}
	}
	return issues
}

// fixMissingTableHeader promotes the first row to column headers. The count
// is the number of cells converted.
func fixMissingTableHeader(doc *dom.Document) int {
	fixed := 0
	for _, t := range dataTables(doc) {
		if td, th := cellCounts(t); td == 0 || th > 0 {
			continue
		}
		rows := tableRows(t)
		for _, cell := range rowCells(rows[0]) {
			th := dom.Rename(cell, "th")
			dom.SetAttr(th, "scope", "col")
			fixed++
		}
	}
	return fixed
}

var missingThScopeInfo = a11y.RuleInfo{
	ID:              "missing-th-scope",
	Message:         "Table header cell has no scope",
	Description:     "A scope attribute tells assistive technology whether a header applies to its column or its row.",
	WCAGCriterion:   "1.3.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityMinor,
	Recommendation:  "Add scope=\"col\" or scope=\"row\" to header cells.",
}

type missingThScope struct{ rule }

type unscopedHeader struct {
	cell  *html.Node
	scope string
}

func (r missingThScope) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, h := range unscopedHeaders(doc) {
		issues = append(issues, r.issue(h.cell, map[string]string{"suggested_scope": h.scope}))
	}
	return issues
}

// unscopedHeaders finds th cells lacking scope in tables that do not wire
// cells with headers/id. The suggested scope is col for the first row and
// thead, row for a leading cell of a later row.
func unscopedHeaders(doc *dom.Document) []unscopedHeader {
	var out []unscopedHeader
	for _, t := range dataTables(doc) {
		if usesHeadersAttr(t) {
			continue
		}
		for i, tr := range tableRows(t) {
			cells := rowCells(tr)
			for j, c := range cells {
				if c.Data != "th" || dom.TrimmedAttr(c, "scope") != "" {
					continue
				}
				scope := "col"
				if i > 0 && j == 0 && !dom.HasAncestor(c, "thead") {
					scope = "row"
				}
				out = append(out, unscopedHeader{cell: c, scope: scope})
			}
		}
	}
	return out
}

func usesHeadersAttr(table *html.Node) bool {
	for _, tr := range tableRows(table) {
		for _, c := range rowCells(tr) {
			if dom.HasAttr(c, "headers") {
				return true
			}
		}
	}
	return false
}

func fixMissingThScope(doc *dom.Document) int {
	headers := unscopedHeaders(doc)
	for _, h := range headers {
		dom.SetAttr(h.cell, "scope", h.scope)
	}
	return len(headers)
}

var emptyTableHeaderInfo = a11y.RuleInfo{
	ID:              "empty-table-header",
	Message:         "Table header cell is empty",
	Description:     "Header cells without text leave the associated data cells unlabelled.",
	WCAGCriterion:   "1.3.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityModerate,
	Recommendation:  "Add text to the header, or use a <td> if the cell is not a header.",
}

type emptyTableHeader struct{ rule }

func (r emptyTableHeader) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, t := range dataTables(doc) {
		for _, tr := range tableRows(t) {
			for _, c := range rowCells(tr) {
				if c.Data == "th" && accessibleName(doc, c) == "" {
					issues = append(issues, r.issue(c, nil))
				}
			}
		}
	}
	return issues
}
