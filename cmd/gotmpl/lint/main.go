package lint

import (
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gotmpl/cmd/gotmpl/internal/cliutil"
	"github.com/walteh/gotmpl/pkg/engine"
	"github.com/walteh/gotmpl/pkg/gtmplfs"
)

type options struct {
	glob         string
	failOnIssues bool
}

// NewCommand builds the "lint" subcommand: walk a directory tree for
// templates matching --glob, analyze every match, and (with
// --fail-on-issues) return the combined error of every file that has
// advisory issues (spec §15).
func NewCommand() *cobra.Command {
	opts := &options{glob: "**/*.tmpl"}

	cmd := &cobra.Command{
		Use:   "lint <root-dir>",
		Short: "analyze every matching template under a directory tree",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&opts.glob, "glob", opts.glob, "doublestar pattern to match template files")
	cmd.Flags().BoolVar(&opts.failOnIssues, "fail-on-issues", false, "exit non-zero if any matched template has analyzer issues")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return opts.run(cmd, args[0])
	}
	return cmd
}

func (o *options) run(cmd *cobra.Command, root string) error {
	reg, err := cliutil.BuildRegistry()
	if err != nil {
		return err
	}
	e := engine.New(reg, nil)

	set, err := gtmplfs.Load(afero.NewOsFs(), root, o.glob)
	if err != nil {
		return errors.Errorf("load template set: %w", err)
	}

	var combined *multierror.Error
	for _, name := range set.Names() {
		source, _ := set.Source(name)
		tmpl, err := engine.Parse(name, source, reg)
		if err != nil {
			combined = multierror.Append(combined, errors.Errorf("%s: %w", name, err))
			continue
		}
		report := e.Analyze(tmpl)
		cmd.Printf("%s: %d variable(s), %d helper call(s), precision=%d\n",
			name, len(report.Variables), len(report.HelperCalls), report.Precision)
		if issueErr := report.IssuesAsError(); issueErr != nil {
			combined = multierror.Append(combined, errors.Errorf("%s: %w", name, issueErr))
		}
	}

	if o.failOnIssues {
		return combined.ErrorOrNil()
	}
	return nil
}
