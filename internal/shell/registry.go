package shell

import (
	"fmt"
	"sort"
)

// Handler runs a command and returns its output.
type Handler func(s *Shell, args []string) (string, error)

// Command is a named shell command.
type Command struct {
	// Name is the word that invokes the command.
	Name string
	// Usage describes the arguments, for example "<path>".
	Usage string
	// Help is a one-line description.
	Help string
	// MinArgs and MaxArgs bound the argument count. MaxArgs < 0 means
	// unlimited.
	MinArgs int
	MaxArgs int
	// Run executes the command.
	Run Handler
}

func (c *Command) accepts(n int) bool {
	return n >= c.MinArgs && (c.MaxArgs < 0 || n <= c.MaxArgs)
}

// Registry maps command names to commands.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds cmd. Names must be unique.
func (r *Registry) Register(cmd *Command) error {
	if cmd.Name == "" || cmd.Run == nil {
		return fmt.Errorf("invalid command %q", cmd.Name)
	}
	if _, ok := r.cmds[cmd.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, cmd.Name)
	}
	r.cmds[cmd.Name] = cmd
	return nil
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	c, ok := r.cmds[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
