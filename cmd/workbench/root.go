package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/workbench/internal/shell"
)

// flags holds the global command line flags.
type flags struct {
	configPath string
	logLevel   string
	logFormat  string
	noWatch    bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "workbench [files...]",
		Short: "Workbench - multi-document editing shell",
		Long: `Workbench is a line-oriented editing workspace: tabbed documents in
split panes, with find and replace.

Each input line is a command. Type "help" for the list.

Examples:
  workbench                     Start with an untitled document
  workbench notes.txt todo.md   Open files in tabs
  workbench run fix.lua a.txt   Run a Lua script against a.txt`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, f, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "path to configuration file (TOML or YAML)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&f.logFormat, "log-format", "", "log format (text, json)")
	pf.BoolVar(&f.noWatch, "no-watch", false, "do not reload files changed on disk")

	cmd.AddCommand(newRunCmd(f), newVersionCmd())
	return cmd
}

func runShell(cmd *cobra.Command, f *flags, files []string) error {
	interactive := isTerminal(cmd.InOrStdin())
	s, err := newSession(f, sessionOptions{
		out:         cmd.OutOrStdout(),
		interactive: interactive,
		watch:       true,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	s.openFiles(files)
	err = s.shell.Run(cmd.Context(), cmd.InOrStdin())
	if errors.Is(err, shell.ErrQuit) {
		return nil
	}
	if interactive {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return err
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
