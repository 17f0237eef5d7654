package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/engine"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/rules"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/utils"
)

// app is the state shared by every command.
type app struct {
	cfg         *config.Config
	log         *logging.Logger
	metrics     *monitoring.Metrics
	registry    *a11y.Registry
	profile     *config.Profile
	policy      engine.FailPolicy
	breakers    *resilience.Set
	metricsFile string
}

var state = &app{}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if flags.Changed("log-dev") {
		cfg.Logging.Development, _ = flags.GetBool("log-dev")
	}
	if v, _ := flags.GetString("profile"); v != "" {
		cfg.Engine.Profile = v
	}
	if v, _ := flags.GetString("site-url"); v != "" {
		cfg.Engine.SiteURL = v
	}
	if v, _ := flags.GetString("fail-policy"); v != "" {
		cfg.Engine.FailPolicy = v
	}
	if noColor, _ := flags.GetBool("no-color"); noColor {
		color.NoColor = true
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	reg := rules.Default()
	profile := &config.Profile{}
	if cfg.Engine.Profile != "" {
		profile, err = config.LoadProfile(cfg.Engine.Profile)
		if err != nil {
			return err
		}
		if err := profile.Validate(reg); err != nil {
			return withSuggestion(err, reg)
		}
		if profile.FailPolicy != "" && !flags.Changed("fail-policy") {
			cfg.Engine.FailPolicy = profile.FailPolicy
		}
		if profile.SiteURL != "" && !flags.Changed("site-url") {
			cfg.Engine.SiteURL = profile.SiteURL
		}
	}

	policy, err := engine.ParseFailPolicy(cfg.Engine.FailPolicy)
	if err != nil {
		return err
	}

	state.cfg = cfg
	state.log = log
	state.metrics = monitoring.NewMetrics()
	state.registry = reg
	state.profile = profile
	state.policy = policy
	state.metricsFile, _ = flags.GetString("metrics-file")
	if cfg.Engine.QuarantineAfter > 0 {
		state.breakers = resilience.NewSet(resilience.Settings{
			Threshold: cfg.Engine.QuarantineAfter,
			Cooldown:  cfg.Engine.QuarantineCooldown,
		})
	}

	log.Debug("configuration loaded",
		zap.String("profile", cfg.Engine.Profile),
		zap.String("fail_policy", policy.String()),
		zap.String("site_url", cfg.Engine.SiteURL),
		zap.Int("rules", reg.Len()))
	return nil
}

// engineOptions builds the options shared by Scanner and Remediator.
func (a *app) engineOptions(sanitize bool) []engine.Option {
	opts := []engine.Option{
		engine.WithLogger(a.log),
		engine.WithMetrics(a.metrics),
		engine.WithFailPolicy(a.policy),
		engine.WithMaxHTMLBytes(a.cfg.Engine.MaxHTMLBytes),
	}
	if a.breakers != nil {
		opts = append(opts, engine.WithBreakers(a.breakers))
	}
	if sanitize {
		opts = append(opts, engine.WithSanitizer(engine.NewSanitizer(rules.AriaAttributes()...)))
	}
	return opts
}

// ruleSelection validates explicit ids or falls back to the profile.
func (a *app) ruleSelection(ids []string, forFix bool) ([]string, error) {
	ids = splitIDs(ids)
	if len(ids) > 0 {
		if err := utils.ValidateRuleIDs(ids); err != nil {
			return nil, err
		}
		if err := a.registry.Validate(ids); err != nil {
			return nil, withSuggestion(err, a.registry)
		}
		return ids, nil
	}
	if a.cfg.Engine.Profile == "" {
		return nil, nil
	}
	var selected []string
	if forFix {
		selected = a.profile.FixRules(automaticIDs(a.registry))
	} else {
		selected = a.profile.ScanRules(a.registry.IDs())
	}
	if len(selected) == 0 {
		a.log.Warn("profile selects no rules", zap.String("profile", a.cfg.Engine.Profile), zap.Bool("fix", forFix))
		return []string{}, nil
	}
	return selected, nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.metricsFile == "" || a.metrics == nil {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func automaticIDs(reg *a11y.Registry) []string {
	var ids []string
	for _, f := range reg.Fixers() {
		if f.Kind() == a11y.FixAutomatic {
			ids = append(ids, f.ID())
		}
	}
	return ids
}

// splitIDs accepts repeated flags and comma-separated lists alike.
func splitIDs(raw []string) []string {
	var ids []string
	for _, item := range raw {
		for _, id := range strings.Split(item, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return utils.Deduplicate(ids)
}

// withSuggestion adds a "did you mean" hint to unknown-rule errors.
func withSuggestion(err error, reg *a11y.Registry) error {
	msg := err.Error()
	i := strings.LastIndex(msg, ": ")
	if i < 0 {
		return err
	}
	unknown := msg[i+2:]
	if guess, ok := utils.Closest(unknown, reg.IDs(), 3); ok {
		return fmt.Errorf("%w (did you mean %q?)", err, guess)
	}
	return err
}
