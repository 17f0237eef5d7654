package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/engine"
)

var (
	severityColors = map[a11y.Severity]*color.Color{
		a11y.SeverityCritical: color.New(color.FgRed, color.Bold),
		a11y.SeveritySerious:  color.New(color.FgRed),
		a11y.SeverityModerate: color.New(color.FgYellow),
		a11y.SeverityMinor:    color.New(color.FgCyan),
		a11y.SeverityWarning:  color.New(color.FgMagenta),
		a11y.SeverityNotice:   color.New(color.Faint),
	}
	headerColor = color.New(color.Bold)
	okColor     = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed, color.Bold)
	dimColor    = color.New(color.Faint)
)

func writeJSON(w io.Writer, v interface{}) error {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func severityLabel(s a11y.Severity) string {
	c, ok := severityColors[s]
	if !ok {
		return s.String()
	}
	return c.Sprintf("%-8s", s.String())
}

func writeScanText(w io.Writer, results []scanResult) error {
	for _, res := range results {
		if res.Report == nil {
			fmt.Fprintf(w, "%s  %s\n", headerColor.Sprint(res.Source), errColor.Sprint(res.Error))
			continue
		}
		r := res.Report
		fmt.Fprintf(w, "%s  %s\n", headerColor.Sprint(res.Source), summaryLine(r))
		if res.Error != "" {
			fmt.Fprintf(w, "  %s\n", errColor.Sprint(res.Error))
		}

		for _, issue := range r.Issues {
			fmt.Fprintf(w, "  %s %-30s %s %s\n", severityLabel(issue.Severity), issue.RuleID,
				dimColor.Sprintf("%s %s", issue.WCAGCriterion, issue.WCAGLevel), issue.Message)
			fmt.Fprintf(w, "           %s\n", dimColor.Sprint(issue.Selector))
		}
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  %s %s\n", errColor.Sprint("failed  "), f.Error())
		}
		if len(r.FixableRules) > 0 {
			fmt.Fprintf(w, "  fixable: %s\n", strings.Join(r.FixableRules, ", "))
		}
		if len(r.ManualRules) > 0 {
			fmt.Fprintf(w, "  manual:  %s\n", strings.Join(r.ManualRules, ", "))
		}
	}
	return nil
}

func summaryLine(r *engine.Report) string {
	total := 0
	var parts []string
	for _, s := range a11y.Severities() {
		n := r.Count(s)
		total += n
		if n > 0 {
			parts = append(parts, severityColors[s].Sprintf("%d %s", n, s))
		}
	}
	if total == 0 {
		return okColor.Sprint("no issues")
	}
	noun := "issues"
	if total == 1 {
		noun = "issue"
	}
	return fmt.Sprintf("%d %s (%s)", total, noun, strings.Join(parts, ", "))
}

func writeFixSummary(w io.Writer, path string, rem *engine.Remediation) error {
	fmt.Fprintf(w, "%s  fixed %d\n", headerColor.Sprint(path), rem.FixedCount)
	for _, a := range rem.Applied {
		if a.FixedCount > 0 {
			fmt.Fprintf(w, "  %s %s\n", okColor.Sprintf("%3d", a.FixedCount), a.RuleID)
		}
	}
	for _, f := range rem.Failures {
		fmt.Fprintf(w, "  %s %s\n", errColor.Sprint("failed"), f.Error())
	}
	if len(rem.Manual) > 0 {
		fmt.Fprintf(w, "  needs manual review: %s\n", strings.Join(rem.Manual, ", "))
	}
	if rem.Sanitized {
		fmt.Fprintln(w, dimColor.Sprint("  output sanitized"))
	}
	return nil
}

func writeRulesText(w io.Writer, catalog []a11y.CatalogEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWCAG\tLEVEL\tSEVERITY\tFIX")
	for _, e := range catalog {
		fix := string(e.FixKind)
		if fix == "" {
			fix = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.WCAGCriterion, e.WCAGLevel, e.DefaultSeverity, fix)
	}
	return tw.Flush()
}
