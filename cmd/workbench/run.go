package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/workbench/internal/script"
)

func newRunCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.lua> [files...]",
		Short: "Run a Lua script against a workspace",
		Long: `Run executes a Lua script non-interactively. Every shell command is
available as a function of the ws table:

  ws.open("a.txt")
  ws.set("case", true)
  print(ws.replaceall("colour", "color"))
  ws.save()

Files named after the script are opened before it runs. Unsaved changes
are handled by the prompt.non_interactive setting.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(f, sessionOptions{out: cmd.OutOrStdout()})
			if err != nil {
				return err
			}
			defer s.Close()

			s.openFiles(args[1:])
			r := script.New(s.shell,
				script.WithOutput(cmd.OutOrStdout()),
				script.WithLogger(s.logger),
			)
			return r.RunFile(cmd.Context(), args[0])
		},
	}
}
