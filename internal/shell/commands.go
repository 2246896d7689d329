package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dshills/workbench/internal/document"
	"github.com/dshills/workbench/internal/textbuf"
)

func registerBuiltins(r *Registry) {
	for _, cmd := range builtins() {
		if err := r.Register(cmd); err != nil {
			panic(err)
		}
	}
}

func builtins() []*Command {
	return []*Command{
		// Documents
		{Name: "new", Help: "open an untitled document in the focused group", Run: cmdNew},
		{Name: "open", Usage: "[path]", Help: "open a file, asking for a path when none is given", MaxArgs: 1, Run: cmdOpen},
		{Name: "save", Help: "save the focused document", Run: cmdSave},
		{Name: "saveas", Usage: "[path]", Help: "save the focused document under a new path", MaxArgs: 1, Run: cmdSaveAs},
		{Name: "close", Help: "close the focused document", Run: cmdClose},
		{Name: "closeall", Help: "close every document", Run: cmdCloseAll},
		{Name: "reload", Usage: "<path>", Help: "re-read unmodified documents open at path", MinArgs: 1, MaxArgs: 1, Run: cmdReload},

		// Layout
		{Name: "split", Help: "split the focused pane side by side", Run: cmdSplit},
		{Name: "vsplit", Help: "split the focused pane top and bottom", Run: cmdVSplit},
		{Name: "unsplit", Help: "close the focused pane and its documents", Run: cmdUnsplit},
		{Name: "focus", Usage: "next|prev|<n>", Help: "move focus between panes", MinArgs: 1, MaxArgs: 1, Run: cmdFocus},
		{Name: "tab", Usage: "next|prev|<n>", Help: "switch tabs in the focused pane", MinArgs: 1, MaxArgs: 1, Run: cmdTab},
		{Name: "resize", Usage: "<delta>", Help: "grow or shrink the focused pane by a share of its parent", MinArgs: 1, MaxArgs: 1, Run: cmdResize},
		{Name: "equalize", Help: "give every pane an equal share", Run: cmdEqualize},
		{Name: "layout", Help: "show the pane tree", Run: cmdLayout},
		{Name: "tabs", Help: "list the tabs of the focused pane", Run: cmdTabs},

		// Search
		{Name: "find", Usage: "[query]", Help: "find the next match, starting over when the query changes", MaxArgs: 1, Run: cmdFind},
		{Name: "findprev", Help: "find the previous match", Run: cmdFindPrev},
		{Name: "replace", Usage: "[replacement]", Help: "replace the current match and find the next", MaxArgs: 1, Run: cmdReplace},
		{Name: "replaceall", Usage: "[replacement]", Help: "replace every match", MaxArgs: 1, Run: cmdReplaceAll},
		{Name: "count", Help: "count matches of the query", Run: cmdCount},
		{Name: "set", Usage: "query|replacement|case|word <value>", Help: "change a search setting", MinArgs: 2, MaxArgs: 2, Run: cmdSet},
		{Name: "seed", Help: "use the selection as the query", Run: cmdSeed},

		// Editing
		{Name: "text", Help: "print the focused document", Run: cmdText},
		{Name: "insert", Usage: "<text>...", Help: "replace the selection with text", MinArgs: 1, MaxArgs: -1, Run: cmdInsert},
		{Name: "select", Usage: "<start> <end>", Help: "select a byte range", MinArgs: 2, MaxArgs: 2, Run: cmdSelect},
		{Name: "undo", Help: "undo the last edit", Run: cmdUndo},
		{Name: "redo", Help: "redo the last undone edit", Run: cmdRedo},

		// Session
		{Name: "status", Help: "print a JSON snapshot of the workspace", Run: cmdStatus},
		{Name: "title", Help: "print the window title", Run: cmdTitle},
		{Name: "help", Help: "list commands", Run: cmdHelp},
		{Name: "quit", Help: "end the session", Run: cmdQuit},
	}
}

func cmdNew(s *Shell, _ []string) (string, error) {
	s.ws.NewTab()
	return "", nil
}

func cmdOpen(s *Shell, args []string) (string, error) {
	doc, err := s.ws.Open(optArg(args))
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "open cancelled", nil
	}
	return "", nil
}

func cmdSave(s *Shell, _ []string) (string, error) {
	return "", s.ws.SaveCurrent()
}

func cmdSaveAs(s *Shell, args []string) (string, error) {
	if len(args) == 0 {
		return "", s.ws.SaveCurrentAs()
	}
	return "", s.ws.SaveCurrentTo(args[0])
}

func cmdClose(s *Shell, _ []string) (string, error) {
	_, err := s.ws.CloseCurrentTab()
	return "", err
}

func cmdCloseAll(s *Shell, _ []string) (string, error) {
	return "", s.ws.CloseAll()
}

func cmdReload(s *Shell, args []string) (string, error) {
	n, err := s.ws.ReloadFromDisk(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("reloaded %d", n), nil
}

func cmdSplit(s *Shell, _ []string) (string, error) {
	s.ws.SplitHorizontal()
	return "", nil
}

func cmdVSplit(s *Shell, _ []string) (string, error) {
	s.ws.SplitVertical()
	return "", nil
}

func cmdUnsplit(s *Shell, _ []string) (string, error) {
	_, err := s.ws.CloseSplit()
	return "", err
}

func cmdFocus(s *Shell, args []string) (string, error) {
	switch args[0] {
	case "next":
		s.ws.FocusNextSplit()
	case "prev":
		s.ws.FocusPreviousSplit()
	default:
		groups := s.ws.Groups()
		n, err := indexArg(args[0], len(groups))
		if err != nil {
			return "", err
		}
		s.ws.Focus(groups[n].ID())
	}
	return "", nil
}

func cmdTab(s *Shell, args []string) (string, error) {
	switch args[0] {
	case "next":
		s.ws.NextTab()
	case "prev":
		s.ws.PrevTab()
	default:
		g := s.ws.CurrentGroup()
		n, err := indexArg(args[0], g.Len())
		if err != nil {
			return "", err
		}
		g.SetActive(n)
	}
	return "", nil
}

func cmdResize(s *Shell, args []string) (string, error) {
	delta, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return "", fmt.Errorf("invalid delta %q: %w", args[0], err)
	}
	if !s.ws.ResizeSplit(delta) {
		return "nothing to resize", nil
	}
	return "", nil
}

func cmdEqualize(s *Shell, _ []string) (string, error) {
	s.ws.EqualizeSplits()
	return "", nil
}

func cmdLayout(s *Shell, _ []string) (string, error) {
	return renderLayout(s.ws), nil
}

func cmdTabs(s *Shell, _ []string) (string, error) {
	return renderTabs(s.ws.CurrentGroup()), nil
}

func cmdFind(s *Shell, args []string) (string, error) {
	e := s.ws.Search()
	if len(args) == 1 && args[0] != e.Query() {
		e.SetQuery(args[0])
		return describeMatch(e.FindFromStart()), nil
	}
	return describeMatch(e.FindNext()), nil
}

func cmdFindPrev(s *Shell, _ []string) (string, error) {
	return describeMatch(s.ws.Search().FindPrevious()), nil
}

func cmdReplace(s *Shell, args []string) (string, error) {
	e := s.ws.Search()
	if len(args) == 1 {
		e.SetReplacement(args[0])
	}
	if !s.ws.ReplaceCurrent() {
		return "no match", nil
	}
	return describeMatch(e.LastMatch()), nil
}

func cmdReplaceAll(s *Shell, args []string) (string, error) {
	e := s.ws.Search()
	if len(args) == 1 {
		e.SetReplacement(args[0])
	}
	return fmt.Sprintf("replaced %d", s.ws.ReplaceAll()), nil
}

func cmdCount(s *Shell, _ []string) (string, error) {
	return strconv.Itoa(s.ws.Search().CountMatches()), nil
}

func cmdSet(s *Shell, args []string) (string, error) {
	e := s.ws.Search()
	switch args[0] {
	case "query":
		e.SetQuery(args[1])
	case "replacement":
		e.SetReplacement(args[1])
	case "case", "word":
		on, err := parseSwitch(args[1])
		if err != nil {
			return "", err
		}
		if args[0] == "case" {
			e.SetCaseSensitive(on)
		} else {
			e.SetWholeWord(on)
		}
	default:
		return "", &UsageError{Command: "set", Usage: "query|replacement|case|word <value>"}
	}
	return "", nil
}

func cmdSeed(s *Shell, _ []string) (string, error) {
	e := s.ws.Search()
	if !e.SeedFromSelection() {
		return "", nil
	}
	return fmt.Sprintf("query %q", e.Query()), nil
}

func cmdText(s *Shell, _ []string) (string, error) {
	doc := s.ws.CurrentDocument()
	if doc == nil {
		return "", nil
	}
	return doc.Text(), nil
}

func cmdInsert(s *Shell, args []string) (string, error) {
	text := strings.Join(args, " ")
	return "", s.ws.EditCurrent(func(doc *document.Document) error {
		buf := doc.Buffer()
		return buf.ReplaceRange(buf.Selection(), text)
	})
}

func cmdSelect(s *Shell, args []string) (string, error) {
	var offs [2]textbuf.ByteOffset
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return "", fmt.Errorf("invalid offset %q: %w", a, err)
		}
		offs[i] = textbuf.ByteOffset(n)
	}
	doc := s.ws.CurrentDocument()
	if doc == nil {
		return "", nil
	}
	buf := doc.Buffer()
	if offs[0] < 0 || offs[1] < 0 || offs[0] > buf.Len() || offs[1] > buf.Len() {
		return "", fmt.Errorf("%w: %d %d", textbuf.ErrOffsetOutOfRange, offs[0], offs[1])
	}
	for _, off := range offs {
		if !textbuf.IsRuneBoundary(buf.Text(), off) {
			return "", fmt.Errorf("%w: %d", textbuf.ErrNotRuneBoundary, off)
		}
	}
	buf.SetSelection(offs[0], offs[1])
	return "", nil
}

func cmdUndo(s *Shell, _ []string) (string, error) {
	return "", s.ws.Undo()
}

func cmdRedo(s *Shell, _ []string) (string, error) {
	return "", s.ws.Redo()
}

func cmdStatus(s *Shell, _ []string) (string, error) {
	return Status(s.ws, s.tabWidth)
}

func cmdTitle(s *Shell, _ []string) (string, error) {
	return s.ws.Title(), nil
}

func cmdHelp(s *Shell, _ []string) (string, error) {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, name := range s.reg.Names() {
		cmd, _ := s.reg.Lookup(name)
		fmt.Fprintf(tw, "%s %s\t%s\n", cmd.Name, cmd.Usage, cmd.Help)
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func cmdQuit(*Shell, []string) (string, error) {
	return "", ErrQuit
}

func optArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// indexArg parses a 1-based index into a 0-based one below n.
func indexArg(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("index %d out of range 1..%d", i, n)
	}
	return i - 1, nil
}

var errBadSwitch = errors.New("expected on or off")

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	on, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %q", errBadSwitch, s)
	}
	return on, nil
}

func describeMatch(r textbuf.Range, ok bool) string {
	if !ok {
		return "no match"
	}
	return "match " + r.String()
}
