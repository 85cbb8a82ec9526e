package fmtcmd

import (
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gotmpl/pkg/ast"
	"github.com/walteh/gotmpl/pkg/parser"
)

// NewCommand builds the "fmt" subcommand: parse a template and print its
// canonical re-emission (spec §15).
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt <template-file>",
		Short: "print a template's canonical re-emission",
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

	tmpl, err := parser.Parse(templatePath, string(source))
	if err != nil {
		return errors.Errorf("parse template: %w", err)
	}

	cmd.Print(ast.Canonicalize(tmpl))
	return nil
}
