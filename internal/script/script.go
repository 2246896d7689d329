// Package script runs Lua scripts against a shell. Every shell command is
// exposed as a function of the global ws table, so
//
//	ws.open("notes.txt")
//	ws.find("TODO")
//	print(ws.count())
//
// behaves like typing the same commands. Scripts run in a sandboxed state
// with only the base, table, string and math libraries.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/workbench/internal/logging"
	"github.com/dshills/workbench/internal/shell"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 30 * time.Second

// Runner executes scripts.
type Runner struct {
	sh      *shell.Shell
	out     io.Writer
	timeout time.Duration
	logger  *logging.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput sets the destination of Lua print. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithTimeout sets the time limit of a run. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// New creates a runner driving sh.
func New(sh *shell.Shell, opts ...Option) *Runner {
	r := &Runner{
		sh:      sh,
		out:     io.Discard,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("script")
	return r
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	r.logger.Info("running script", "path", path)
	return r.run(ctx, func(L *lua.LState) error { return L.DoFile(path) })
}

// RunString executes code.
func (r *Runner) RunString(ctx context.Context, code string) error {
	return r.run(ctx, func(L *lua.LState) error { return L.DoString(code) })
}

func (r *Runner) run(ctx context.Context, do func(L *lua.LState) error) (err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	// The state runs under its own context so quit can halt the VM even
	// when the script catches the quit error with pcall.
	luaCtx, stop := context.WithCancel(ctx)
	defer stop()
	st := &runState{stop: stop}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	L.SetContext(luaCtx)

	openSafeLibraries(L)
	r.installPrint(L)
	r.installAPI(L, st)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: lua panic: %v", ErrScriptFailed, p)
		}
	}()

	if runErr := do(L); runErr != nil {
		switch {
		case st.quit:
			return nil
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
		case ctx.Err() != nil:
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrScriptFailed, runErr)
	}
	return nil
}

func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (r *Runner) installPrint(L *lua.LState) {
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		fmt.Fprintln(r.out, strings.Join(parts, "\t"))
		return 0
	}))
}

// runState tracks a single script run.
type runState struct {
	quit bool
	stop context.CancelFunc
}

// installAPI builds the ws table. Each function returns the command output
// as a string and raises a Lua error when the command fails.
func (r *Runner) installAPI(L *lua.LState, st *runState) {
	ws := L.NewTable()
	for _, name := range r.sh.Registry().Names() {
		L.SetField(ws, name, L.NewFunction(r.command(name, st)))
	}
	L.SetField(ws, "exec", L.NewFunction(func(L *lua.LState) int {
		line := L.CheckString(1)
		if st.quit {
			L.RaiseError("quit")
			return 0
		}
		out, err := r.sh.Exec(line)
		return r.result(L, "exec", out, err, st)
	}))
	L.SetGlobal("ws", ws)
}

func (r *Runner) command(name string, st *runState) lua.LGFunction {
	return func(L *lua.LState) int {
		if st.quit {
			L.RaiseError("quit")
			return 0
		}
		args := make([]string, L.GetTop())
		for i := range args {
			v := L.Get(i + 1)
			switch v.Type() {
			case lua.LTString, lua.LTNumber, lua.LTBool:
				args[i] = v.String()
			default:
				L.ArgError(i+1, "string, number or boolean expected, got "+v.Type().String())
			}
		}
		out, err := r.sh.Call(name, args...)
		return r.result(L, name, out, err, st)
	}
}

func (r *Runner) result(L *lua.LState, name, out string, err error, st *runState) int {
	if errors.Is(err, shell.ErrQuit) {
		st.quit = true
		st.stop()
		L.RaiseError("quit")
		return 0
	}
	if err != nil {
		r.logger.Debug("command failed", "command", name, "error", err)
		L.RaiseError("%s: %v", name, err)
		return 0
	}
	L.Push(lua.LString(out))
	return 1
}
