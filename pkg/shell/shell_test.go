package shell

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devlink/console.go/pkg/console"
)

type captureWriter struct {
	out strings.Builder
}

func (w *captureWriter) Output(p []byte) int {
	w.out.Write(p)
	return len(p)
}

func (w *captureWriter) OutputFormat(format string, args ...interface{}) int {
	s := fmt.Sprintf(format, args...)
	w.out.WriteString(s)
	return len(s)
}

func process(s *Shell, line string) string {
	var w captureWriter
	s.ProcessLine([]byte(line), &w)
	return w.out.String()
}

func TestShellEcho(t *testing.T) {
	s := New()
	require.Equal(t, "hello world\r\n", process(s, "echo hello world"))
}

func TestShellQuoting(t *testing.T) {
	s := New()
	require.Equal(t, "a b\r\n", process(s, "echo 'a b'"))
	require.Contains(t, process(s, "echo 'unterminated"), "parse error")
}

func TestShellUnknownCommand(t *testing.T) {
	s := New()
	require.Equal(t, "bogus: command not found\r\n", process(s, "bogus arg"))
}

func TestShellBlankLine(t *testing.T) {
	s := New()
	require.Equal(t, "", process(s, ""))
	require.Equal(t, "", process(s, "   "))
}

func TestShellVersion(t *testing.T) {
	s := New().WithVersion("1.2.3")
	require.Equal(t, "1.2.3\r\n", process(s, "version"))
}

func TestShellHelpListsCommands(t *testing.T) {
	s := New()
	out := process(s, "help")
	for _, name := range []string{"echo", "help", "id", "log", "uptime", "version"} {
		require.Containsf(t, out, name, "help output misses %s", name)
	}
}

func TestShellRegisterOverride(t *testing.T) {
	s := New()
	s.Register(&Command{
		Name: "version",
		Help: "custom",
		Run: func(args []string, out console.Writer) {
			out.Output([]byte("custom\r\n"))
		},
	})
	require.Equal(t, "custom\r\n", process(s, "version"))
}

func TestShellLogCommand(t *testing.T) {
	s := New()
	require.Equal(t, "WARN SHEL disk low\r\n", process(s, "log warn disk low"))
	require.Contains(t, process(s, "log bogus x"), "unknown level")
	require.Contains(t, process(s, "log"), "usage:")
}
