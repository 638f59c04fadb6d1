package shell

import (
	"sort"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"

	"github.com/devlink/console.go/pkg/console"
)

var startTime = time.Now()

func builtins(s *Shell) []*Command {
	return []*Command{
		{
			Name: "help",
			Help: "list available commands",
			Run: func(args []string, out console.Writer) {
				names := make([]string, 0, len(s.cmds))
				for name := range s.cmds {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					out.OutputFormat("%-10s %s\r\n", name, s.cmds[name].Help)
				}
			},
		},
		{
			Name: "echo",
			Help: "write arguments back",
			Run: func(args []string, out console.Writer) {
				out.OutputFormat("%s\r\n", strings.Join(args, " "))
			},
		},
		{
			Name: "version",
			Help: "report the console version",
			Run: func(args []string, out console.Writer) {
				out.OutputFormat("%s\r\n", s.Version)
			},
		},
		{
			Name: "id",
			Help: "report the device identity",
			Run: func(args []string, out console.Writer) {
				id, err := machineid.ID()
				if err != nil {
					out.OutputFormat("id unavailable: %v\r\n", err)
					return
				}
				out.OutputFormat("%s\r\n", id)
			},
		},
		{
			Name: "uptime",
			Help: "report time since startup",
			Run: func(args []string, out console.Writer) {
				out.OutputFormat("%s\r\n", time.Since(startTime).Truncate(time.Second))
			},
		},
		{
			Name: "log",
			Help: "emit a tagged log line: log <crit|warn|info|debg> <message>",
			Run:  logCmd,
		},
	}
}

var logLevels = map[string]console.LogLevel{
	"crit": console.LogLevelCrit,
	"warn": console.LogLevelWarn,
	"info": console.LogLevelInfo,
	"debg": console.LogLevelDebg,
}

func logCmd(args []string, out console.Writer) {
	if len(args) < 2 {
		out.OutputFormat("usage: log <crit|warn|info|debg> <message>\r\n")
		return
	}
	level, ok := logLevels[args[0]]
	if !ok {
		out.OutputFormat("unknown level: %s\r\n", args[0])
		return
	}
	out.OutputFormat("%s%s%s\r\n",
		level.Tag(), console.LogRegionShell.Tag(), strings.Join(args[1:], " "))
}
