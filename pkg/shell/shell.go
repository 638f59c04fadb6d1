// Package shell provides a small command interpreter for the console
// transport.
package shell

import (
	shlex "github.com/flynn-archive/go-shlex"

	"github.com/devlink/console.go/pkg/console"
)

// Command implements one console command.
type Command struct {
	Name string
	Help string
	Run  func(args []string, out console.Writer)
}

// Shell interprets completed command lines. It implements
// console.LineHandler; failures are plain text written back through
// the output handle.
type Shell struct {
	// Version is reported by the version command.
	Version string

	cmds map[string]*Command
}

// New creates a Shell with the builtin commands registered.
func New() *Shell {
	s := &Shell{Version: "dev", cmds: make(map[string]*Command)}
	s.Register(builtins(s)...)
	return s
}

// WithVersion sets the reported version.
func (s *Shell) WithVersion(version string) *Shell {
	s.Version = version
	return s
}

// Register adds commands, replacing earlier ones with the same name.
func (s *Shell) Register(cmds ...*Command) *Shell {
	for _, cmd := range cmds {
		s.cmds[cmd.Name] = cmd
	}
	return s
}

// ProcessLine implements console.LineHandler.
func (s *Shell) ProcessLine(line []byte, out console.Writer) {
	args, err := shlex.Split(string(line))
	if err != nil {
		out.OutputFormat("parse error: %v\r\n", err)
		return
	}
	if len(args) == 0 {
		return
	}
	cmd := s.cmds[args[0]]
	if cmd == nil {
		out.OutputFormat("%s: command not found\r\n", args[0])
		return
	}
	cmd.Run(args[1:], out)
}
