package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "a11y",
	Short: "Audit and repair HTML for WCAG accessibility issues",
	Long: "a11y scans HTML fragments, files and pages for WCAG violations and\n" +
		"rewrites the markup for the violations that can be repaired safely.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("profile", "", "rule profile file (.yaml, .yml or .toml); overrides A11Y_PROFILE")
	pf.String("site-url", "", "site URL used to resolve relative links; overrides A11Y_SITE_URL")
	pf.String("fail-policy", "", "open or closed; overrides A11Y_FAIL_POLICY")
	pf.String("log-level", "", "debug, info, warn or error; overrides A11Y_LOG_LEVEL")
	pf.Bool("log-dev", false, "human-readable console logs")
	pf.String("metrics-file", "", "write Prometheus metrics in textfile format on exit")
	pf.Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.Version = version
}

// exitError ends the process with code without printing anything more.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if cerr := state.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err == nil {
		return
	}

	var exit *exitError
	if errors.As(err, &exit) {
		stop()
		os.Exit(exit.code)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	stop()
	os.Exit(2)
}
