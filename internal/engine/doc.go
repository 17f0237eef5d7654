// Package engine runs detection and fix rules over HTML fragments.
//
// Scanner runs detectors against one parsed document and aggregates their
// issues into a Report in registry order. Remediator runs fixers one after
// another, feeding each fixer's output to the next, so later rules see the
// structure earlier ones produced.
//
// Both isolate rule faults. A panicking or erroring rule becomes a
// RuleFailure; under FailOpen the run continues, under FailClosed it stops
// and returns ErrRuleFailed with the partial result. With quarantine
// enabled, a rule that keeps failing is skipped for a cooldown.
//
// Example Usage:
//
//	reg := rules.Default()
//	scanner := engine.NewScanner(reg, engine.WithLogger(log), engine.WithMetrics(m))
//	report, err := scanner.Scan(ctx, html, engine.ScanOptions{Env: a11y.NewEnv(site)})
//
//	fixer := engine.NewRemediator(reg, engine.WithFailPolicy(engine.FailClosed))
//	result, err := fixer.Fix(ctx, html, report.FixableRules...)
package engine
