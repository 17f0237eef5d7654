package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/utils"
)

// Remediator runs fixers in sequence. It is safe for concurrent use.
type Remediator struct {
	registry *a11y.Registry
	opts     options
}

// NewRemediator creates a remediator over reg.
func NewRemediator(reg *a11y.Registry, opts ...Option) *Remediator {
	return &Remediator{registry: reg, opts: newOptions(opts)}
}

// Fix applies the fixers for ruleIDs in the given order, threading each
// fixer's output into the next. With no ids every automatic fixer runs in
// registry order; an empty non-nil slice passed as ruleIDs... runs none and
// returns the content unchanged. Selected rules whose fixer is manual are listed in
// Manual and never run.
//
// A failing fixer contributes no change. Under FailClosed the run stops at
// the first failure and returns the content produced so far along with an
// error wrapping ErrRuleFailed.
func (r *Remediator) Fix(ctx context.Context, content string, ruleIDs ...string) (*Remediation, error) {
	if err := utils.ValidateHTML(content, r.opts.maxHTMLBytes); err != nil && !errors.Is(err, utils.ErrEmptyHTML) {
		return nil, err
	}
	fixers, manual, err := r.selectFixers(ruleIDs)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rem := &Remediation{
		ID:      id.NewFixID().String(),
		Content: content,
		Applied: make([]FixOutcome, 0, len(fixers)),
		Manual:  manual,
	}
	log := r.opts.log.WithRun(rem.ID)

	runErr := r.run(ctx, fixers, rem)

	if r.opts.sanitizer != nil && rem.FixedCount > 0 {
		rem.Content = r.sanitize(rem.Content)
		rem.Sanitized = true
	}
	rem.Duration = time.Since(start)

	if r.opts.metrics != nil {
		r.opts.metrics.RecordRemediation()
	}
	log.Debug("remediation finished",
		zap.Int("fixed", rem.FixedCount),
		zap.Int("fixers", len(rem.Applied)),
		zap.Int("failures", len(rem.Failures)),
		zap.Duration("duration", rem.Duration))

	return rem, runErr
}

func (r *Remediator) run(ctx context.Context, fixers []a11y.Fixer, rem *Remediation) error {
	for _, f := range fixers {
		if err := ctx.Err(); err != nil {
			return err
		}

		ruleID := f.ID()
		var result a11y.FixResult
		failure := r.opts.runRule(ruleID, PhaseFix, func() error {
			var err error
			result, err = f.Apply(rem.Content)
			if err == nil && result.FixedCount < 0 {
				err = fmt.Errorf("negative fixed count %d", result.FixedCount)
			}
			return err
		})
		if failure != nil {
			rem.Failures = append(rem.Failures, *failure)
			if r.opts.policy == FailClosed {
				return fmt.Errorf("%w: %w", ErrRuleFailed, failure)
			}
			continue
		}

		if result.FixedCount > 0 {
			rem.Content = result.Content
			rem.FixedCount += result.FixedCount
			if r.opts.metrics != nil {
				r.opts.metrics.RecordFixes(ruleID, result.FixedCount)
			}
		}
		rem.Applied = append(rem.Applied, FixOutcome{RuleID: ruleID, FixedCount: result.FixedCount})
	}
	return nil
}

// selectFixers resolves ids to the automatic fixers to run and the ids
// that need manual work.
func (r *Remediator) selectFixers(ids []string) (fixers []a11y.Fixer, manual []string, err error) {
	if ids == nil {
		for _, f := range r.registry.Fixers() {
			if f.Kind() == a11y.FixAutomatic {
				fixers = append(fixers, f)
			}
		}
		return fixers, nil, nil
	}
	if err := r.registry.Validate(ids); err != nil {
		return nil, nil, err
	}

	seen := make(map[string]bool, len(ids))
	for _, ruleID := range ids {
		if seen[ruleID] {
			continue
		}
		seen[ruleID] = true
		f, ok := r.registry.Fixer(ruleID)
		if !ok || f.Kind() != a11y.FixAutomatic {
			manual = append(manual, ruleID)
			continue
		}
		fixers = append(fixers, f)
	}
	return fixers, manual, nil
}

// sanitize runs the output policy over a fragment, or over the body of a
// page so the doctype and head survive.
func (r *Remediator) sanitize(content string) string {
	doc := dom.Parse(content)
	body := doc.Body()
	if body == nil {
		return r.opts.sanitizer.Sanitize(content)
	}
	if !dom.SetInnerHTML(body, r.opts.sanitizer.Sanitize(dom.InnerHTML(body))) {
		return r.opts.sanitizer.Sanitize(content)
	}
	return doc.Serialize()
}
