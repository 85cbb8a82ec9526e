package render

import (
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gotmpl/cmd/gotmpl/internal/cliutil"
	"github.com/walteh/gotmpl/pkg/engine"
)

type options struct {
	dataPath string
}

// NewCommand builds the "render" subcommand: parse + evaluate a template
// file against --data, writing the result to stdout (spec §15).
func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "render <template-file>",
		Short: "render a template against JSON data",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&opts.dataPath, "data", "-", "path to a JSON data file, or - for stdin")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return opts.run(cmd, args[0])
	}
	return cmd
}

func (o *options) run(cmd *cobra.Command, templatePath string) error {
	source, err := os.ReadFile(templatePath)
	if err != nil {
		return errors.Errorf("read template file: %w", err)
	}

	data, err := cliutil.LoadData(o.dataPath)
	if err != nil {
		return err
	}

	reg, err := cliutil.BuildRegistry()
	if err != nil {
		return err
	}

	tmpl, err := engine.Parse(templatePath, string(source), reg)
	if err != nil {
		return errors.Errorf("parse template: %w", err)
	}

	e := engine.New(reg, nil)
	out, err := e.Render(tmpl, data)
	if err != nil {
		return errors.Errorf("render template: %w", err)
	}

	cmd.Print(out)
	return nil
}
