package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gotmpl/cmd/gotmpl/analyze"
	"github.com/walteh/gotmpl/cmd/gotmpl/fmtcmd"
	"github.com/walteh/gotmpl/cmd/gotmpl/lint"
	"github.com/walteh/gotmpl/cmd/gotmpl/render"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "gotmpl",
		Short: "An embeddable, text/template-compatible template renderer",
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}
	rootCmd.AddCommand(cmdVersion)

	rootCmd.AddCommand(render.NewCommand())
	rootCmd.AddCommand(analyze.NewCommand())
	rootCmd.AddCommand(fmtcmd.NewCommand())
	rootCmd.AddCommand(lint.NewCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}
	return nil
}
