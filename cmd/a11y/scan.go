package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/engine"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/fetch"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/source"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [file|dir|glob|-]...",
	Short: "Scan HTML files, directories, globs or URLs for accessibility issues",
	Long: "Scan every input and print one report per document. The exit status is 1\n" +
		"when any issue at or above --fail-on is found.",
	RunE: runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringSlice("url", nil, "page URL to fetch and scan (repeatable)")
	f.StringSlice("rules", nil, "rule ids to run (comma-separated or repeated)")
	f.String("min-severity", "notice", "hide issues below this severity")
	f.String("fail-on", "serious", "exit 1 when an issue at or above this severity is found")
	f.String("format", "text", "output format: text or json")
	f.Int("workers", 0, "documents scanned in parallel; overrides A11Y_WORKERS")
}

// scanResult is one document's outcome in a batch.
type scanResult struct {
	Source string         `json:"source"`
	Report *engine.Report `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// batchOutput is the JSON document printed by scan.
type batchOutput struct {
	ID      string       `json:"id"`
	Results []scanResult `json:"results"`
}

type scanTarget struct {
	name  string
	isURL bool
}

func runScan(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	urls, _ := flags.GetStringSlice("url")
	ruleFlags, _ := flags.GetStringSlice("rules")
	format, _ := flags.GetString("format")
	workers, _ := flags.GetInt("workers")

	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}
	minSeverity, err := severityFlag(cmd, "min-severity")
	if err != nil {
		return err
	}
	failOn, err := severityFlag(cmd, "fail-on")
	if err != nil {
		return err
	}
	ruleIDs, err := state.ruleSelection(ruleFlags, false)
	if err != nil {
		return err
	}
	overrides, err := state.profile.SeverityOverrides()
	if err != nil {
		return err
	}
	if workers <= 0 {
		workers = state.cfg.Batch.Workers
	}

	ctx := cmd.Context()
	loader := &source.Loader{MaxBytes: state.cfg.Engine.MaxHTMLBytes, Stdin: os.Stdin}

	var targets []scanTarget
	if len(args) > 0 {
		paths, err := loader.Expand(ctx, args)
		if err != nil {
			return err
		}
		for _, p := range paths {
			targets = append(targets, scanTarget{name: p})
		}
	}
	for _, u := range urls {
		targets = append(targets, scanTarget{name: u, isURL: true})
	}
	if len(targets) == 0 {
		return errors.New("nothing to scan: pass files, directories, globs, - or --url")
	}

	var fetcher *fetch.Client
	if len(urls) > 0 {
		fetcher = fetch.NewClient(fetch.Config{
			Timeout:   state.cfg.Fetch.Timeout,
			RPS:       state.cfg.Fetch.RPS,
			Retries:   state.cfg.Fetch.Retries,
			UserAgent: state.cfg.Fetch.UserAgent,
			MaxBytes:  state.cfg.Engine.MaxHTMLBytes,
		})
	}

	scanner := engine.NewScanner(state.registry, state.engineOptions(false)...)
	batch := batchOutput{ID: id.NewBatchID().String(), Results: make([]scanResult, len(targets))}
	log := state.log.WithRun(batch.ID)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			res := scanResult{Source: target.name}
			content, siteURL, err := loadTarget(gctx, loader, fetcher, target)
			if err == nil {
				res.Report, err = scanner.Scan(gctx, content, engine.ScanOptions{
					RuleIDs:           ruleIDs,
					Env:               a11y.NewEnv(siteURL),
					SeverityOverrides: overrides,
				})
			}
			if err != nil {
				res.Error = err.Error()
				log.Warn("scan failed", zap.String("source", target.name), zap.Error(err))
			}
			batch.Results[i] = res
			// only cancellation stops the batch
			if errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := false
	for _, res := range batch.Results {
		if res.Report != nil {
			res.Report.SortBySeverity()
			if res.Report.HasIssuesAtLeast(failOn) {
				failed = true
			}
			res.Report.Issues = res.Report.Filter(minSeverity)
		}
		if res.Error != "" {
			failed = true
		}
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = writeJSON(out, batch)
	} else {
		err = writeScanText(out, batch.Results)
	}
	if err != nil {
		return err
	}
	if failed {
		return &exitError{code: 1}
	}
	return nil
}

// loadTarget returns the HTML for a target and the site URL to scan it with.
func loadTarget(ctx context.Context, loader *source.Loader, fetcher *fetch.Client, target scanTarget) (string, string, error) {
	siteURL := state.cfg.Engine.SiteURL
	if !target.isURL {
		doc, err := loader.Load(target.name)
		if err != nil {
			return "", "", err
		}
		return doc.HTML, siteURL, nil
	}

	page, err := fetcher.Fetch(ctx, target.name)
	if err != nil {
		return "", "", err
	}
	if siteURL == "" {
		siteURL = page.FinalURL
	}
	return page.HTML, siteURL, nil
}

func severityFlag(cmd *cobra.Command, name string) (a11y.Severity, error) {
	v, _ := cmd.Flags().GetString(name)
	s, err := a11y.ParseSeverity(v)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return s, nil
}
