package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/rules"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/utils"
)

func stubRegistry(t *testing.T, detectors ...stubDetector) *a11y.Registry {
	t.Helper()
	reg := a11y.NewRegistry()
	for _, d := range detectors {
		require.NoError(t, reg.RegisterDetector(d))
	}
	return reg
}

func TestScanWithFullRuleSet(t *testing.T) {
	reg := rules.Default()
	content := `<img src="photo.jpg"><p style="color:#777777;background-color:#888888">low</p>`

	report, err := NewScanner(reg).Scan(context.Background(), content, ScanOptions{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(report.ID, "scan_"))
	assert.Equal(t, utils.ContentHash(content), report.ContentHash)
	assert.Equal(t, reg.IDs(), report.RulesRun)
	assert.Empty(t, report.Failures)

	assert.Contains(t, report.FixableRules, "missing-alt-text")
	assert.Contains(t, report.ManualRules, "insufficient-color-contrast")

	total := 0
	for _, n := range report.Summary {
		total += n
	}
	assert.Equal(t, len(report.Issues), total)
}

func TestScanEmptySelectionRunsNothing(t *testing.T) {
	reg := stubRegistry(t,
		stubDetector{id: "first", severity: a11y.SeverityMinor, count: 1},
		stubDetector{id: "second", severity: a11y.SeverityCritical, count: 2},
	)

	report, err := NewScanner(reg).Scan(context.Background(), "<p>x</p>", ScanOptions{RuleIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, report.RulesRun)
	assert.Empty(t, report.Issues)
}

func TestScanKeepsRegistryOrder(t *testing.T) {
	reg := stubRegistry(t,
		stubDetector{id: "first", severity: a11y.SeverityMinor, count: 1},
		stubDetector{id: "second", severity: a11y.SeverityCritical, count: 2},
		stubDetector{id: "third", severity: a11y.SeverityMinor, count: 1},
	)

	report, err := NewScanner(reg).Scan(context.Background(), "<p>x</p>", ScanOptions{RuleIDs: []string{"third", "first"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "third"}, report.RulesRun)

	report, err = NewScanner(reg).Scan(context.Background(), "<p>x</p>", ScanOptions{})
	require.NoError(t, err)
	var ids []string
	for _, issue := range report.Issues {
		ids = append(ids, issue.RuleID)
	}
	assert.Equal(t, []string{"first", "second", "second", "third"}, ids)

	report.SortBySeverity()
	assert.Equal(t, "second", report.Issues[0].RuleID)
	assert.Equal(t, "first", report.Issues[2].RuleID)
	assert.Equal(t, "third", report.Issues[3].RuleID)

	assert.Len(t, report.Filter(a11y.SeveritySerious), 2)
	assert.Equal(t, 2, report.Count(a11y.SeverityCritical))
	assert.Equal(t, 2, report.Count(a11y.SeverityMinor))
	assert.Equal(t, 0, report.Count(a11y.SeverityNotice))
	assert.True(t, report.HasIssuesAtLeast(a11y.SeverityCritical))
}

func TestScanRejectsBadInput(t *testing.T) {
	reg := stubRegistry(t, stubDetector{id: "only"})

	_, err := NewScanner(reg).Scan(context.Background(), "<p>x</p>", ScanOptions{RuleIDs: []string{"nope"}})
	assert.ErrorIs(t, err, a11y.ErrUnknownRule)

	_, err = NewScanner(reg, WithMaxHTMLBytes(4)).Scan(context.Background(), "<p>too long</p>", ScanOptions{})
	assert.ErrorIs(t, err, utils.ErrHTMLTooLarge)

	report, err := NewScanner(reg).Scan(context.Background(), "   ", ScanOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
}

func TestScanFailOpenIsolatesPanics(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := stubRegistry(t,
		stubDetector{id: "before", severity: a11y.SeverityMinor, count: 1},
		stubDetector{id: "broken", panics: true},
		stubDetector{id: "after", severity: a11y.SeverityMinor, count: 1},
	)

	report, err := NewScanner(reg, WithLogger(logging.Wrap(zap.New(core)))).
		Scan(context.Background(), "<p>x</p>", ScanOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"before", "after"}, report.RulesRun)
	assert.Len(t, report.Issues, 2)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "broken", report.Failures[0].RuleID)
	assert.Equal(t, PhaseDetect, report.Failures[0].Phase)

	var pe *PanicError
	assert.True(t, errors.As(report.Failures[0], &pe))
	assert.Equal(t, "detector exploded", pe.Value)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "broken", logs.All()[0].ContextMap()["rule"])
}

func TestScanFailClosedStops(t *testing.T) {
	reg := stubRegistry(t,
		stubDetector{id: "before", severity: a11y.SeverityMinor, count: 1},
		stubDetector{id: "broken", panics: true},
		stubDetector{id: "after", severity: a11y.SeverityMinor, count: 1},
	)

	report, err := NewScanner(reg, WithFailPolicy(FailClosed)).Scan(context.Background(), "<p>x</p>", ScanOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRuleFailed)
	require.NotNil(t, report)
	assert.Equal(t, []string{"before"}, report.RulesRun)
	assert.Len(t, report.Issues, 1)
	assert.Len(t, report.Failures, 1)
}

func TestScanQuarantinesRepeatFailures(t *testing.T) {
	calls := 0
	reg := stubRegistry(t, stubDetector{id: "flaky", panics: true, calls: &calls})
	scanner := NewScanner(reg, WithQuarantine(2, time.Hour))

	for i := 0; i < 3; i++ {
		report, err := scanner.Scan(context.Background(), "<p>x</p>", ScanOptions{})
		require.NoError(t, err)
		require.Len(t, report.Failures, 1)
		if i < 2 {
			assert.False(t, report.Failures[0].Quarantined())
		} else {
			assert.True(t, report.Failures[0].Quarantined())
			assert.ErrorIs(t, report.Failures[0], ErrRuleQuarantined)
		}
	}
	assert.Equal(t, 2, calls)
}

func TestScanHonorsCancellation(t *testing.T) {
	reg := stubRegistry(t, stubDetector{id: "only", count: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewScanner(reg).Scan(ctx, "<p>x</p>", ScanOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.RulesRun)
}

func TestScanSeverityOverrides(t *testing.T) {
	reg := stubRegistry(t, stubDetector{id: "soft", severity: a11y.SeverityNotice, count: 2})

	report, err := NewScanner(reg).Scan(context.Background(), "<p>x</p>", ScanOptions{
		SeverityOverrides: map[string]a11y.Severity{"soft": a11y.SeverityCritical},
	})
	require.NoError(t, err)
	for _, issue := range report.Issues {
		assert.Equal(t, a11y.SeverityCritical, issue.Severity)
	}
	assert.Equal(t, 2, report.Summary["critical"])
}

func TestScanRecordsMetrics(t *testing.T) {
	m := monitoring.NewMetrics()
	reg := stubRegistry(t,
		stubDetector{id: "noisy", severity: a11y.SeveritySerious, count: 3},
		stubDetector{id: "broken", panics: true},
	)

	_, err := NewScanner(reg, WithMetrics(m)).Scan(context.Background(), "<p>x</p>", ScanOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.IssuesTotal.WithLabelValues("noisy", "serious")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RuleFailures.WithLabelValues("broken", PhaseDetect)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("partial")))
}

func TestParseFailPolicy(t *testing.T) {
	p, err := ParseFailPolicy("Closed")
	require.NoError(t, err)
	assert.Equal(t, FailClosed, p)
	assert.Equal(t, "closed", p.String())

	p, err = ParseFailPolicy("")
	require.NoError(t, err)
	assert.Equal(t, FailOpen, p)

	_, err = ParseFailPolicy("sometimes")
	assert.Error(t, err)
}
