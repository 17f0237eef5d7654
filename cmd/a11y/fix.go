package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/engine"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file|->",
	Short: "Repair the accessibility issues that can be fixed automatically",
	Long: "Run the automatic fixers in order over one document. The repaired markup is\n" +
		"printed to stdout, or written back with --write. Rules that need a human\n" +
		"are listed in the summary.",
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	f := fixCmd.Flags()
	f.StringSlice("rules", nil, "fixers to run, in order (comma-separated or repeated)")
	f.Bool("write", false, "write the result back to the file instead of stdout")
	f.Bool("sanitize", false, "sanitize the repaired markup; overrides A11Y_SANITIZE")
	f.String("format", "text", "output format: text or json")
}

// fixOutput is the JSON document printed by fix.
type fixOutput struct {
	Source string `json:"source"`
	*engine.Remediation
}

func runFix(cmd *cobra.Command, args []string) error {
	path := args[0]
	flags := cmd.Flags()
	write, _ := flags.GetBool("write")
	format, _ := flags.GetString("format")
	ruleFlags, _ := flags.GetStringSlice("rules")

	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q", format)
	}
	if write && path == source.Stdin {
		return errors.New("--write needs a file, not stdin")
	}
	sanitize := state.cfg.Engine.Sanitize
	if flags.Changed("sanitize") {
		sanitize, _ = flags.GetBool("sanitize")
	}

	ruleIDs, err := state.ruleSelection(ruleFlags, true)
	if err != nil {
		return err
	}

	loader := &source.Loader{MaxBytes: state.cfg.Engine.MaxHTMLBytes, Stdin: os.Stdin}
	doc, err := loader.Load(path)
	if err != nil {
		return err
	}

	remediator := engine.NewRemediator(state.registry, state.engineOptions(sanitize)...)
	rem, fixErr := remediator.Fix(cmd.Context(), doc.HTML, ruleIDs...)
	if rem == nil {
		return fixErr
	}

	if write && rem.Changed() && fixErr == nil {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(rem.Content+"\n"), info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		state.log.Info("file remediated", zap.String("path", path), zap.Int("fixed", rem.FixedCount))
	}

	switch {
	case format == "json":
		err = writeJSON(cmd.OutOrStdout(), fixOutput{Source: path, Remediation: rem})
	case write:
		err = writeFixSummary(cmd.ErrOrStderr(), path, rem)
	default:
		if _, err = fmt.Fprintln(cmd.OutOrStdout(), rem.Content); err == nil {
			err = writeFixSummary(cmd.ErrOrStderr(), path, rem)
		}
	}
	if err != nil {
		return err
	}
	return fixErr
}
