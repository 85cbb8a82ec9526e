package analyze

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gotmpl/cmd/gotmpl/internal/cliutil"
	"github.com/walteh/gotmpl/pkg/engine"
)

// NewCommand builds the "analyze" subcommand: parse a template and print
// its structural report as JSON, without evaluating it (spec §15).
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <template-file>",
		Short: "print a template's structural analysis report as JSON",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return run(cmd, args[0])
	}
	return cmd
}

func run(cmd *cobra.Command, templatePath string) error {
	source, err := os.ReadFile(templatePath)
	if err != nil {
		return errors.Errorf("read template file: %w", err)
	}

	reg, err := cliutil.BuildRegistry()
	if err != nil {
		return err
	}

	tmpl, err := engine.Parse(templatePath, string(source), reg)
	if err != nil {
		return errors.Errorf("parse template: %w", err)
	}

	report := engine.New(reg, nil).Analyze(tmpl)

	enc, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Errorf("encode report: %w", err)
	}

	cmd.Println(string(enc))
	return nil
}
