// Package shell implements the interactive line-based front end. Every
// error is printed and the loop continues; only exit, end of input or a
// cancelled context end it.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/michaelscutari/dugout/internal/analyzer"
	"github.com/michaelscutari/dugout/internal/pathutil"
	"github.com/michaelscutari/dugout/internal/report"
)

var (
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
	hostStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dollar     = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Render("$")
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Shell reads commands from in and writes results to out.
type Shell struct {
	engine   *analyzer.Engine
	reporter *report.Reporter
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	prompt   string

	commands []command
	index    map[string]int
}

// New creates a shell. Results are rendered in format.
func New(engine *analyzer.Engine, in io.Reader, out, errOut io.Writer, format report.OutputFormat) *Shell {
	s := &Shell{
		engine:   engine,
		reporter: report.New(out, format),
		in:       in,
		out:      out,
		errOut:   errOut,
		prompt:   defaultPrompt(),
		index:    make(map[string]int),
	}
	s.registerCommands()
	return s
}

// SetPrompt replaces the user@host prompt.
func (s *Shell) SetPrompt(p string) {
	s.prompt = p
}

func defaultPrompt() string {
	name := "user"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	return fmt.Sprintf("\n%s@%s\n%s ", userStyle.Render(name), hostStyle.Render(host), dollar)
}

func (s *Shell) add(c command) {
	s.index[c.name] = len(s.commands)
	s.commands = append(s.commands, c)
}

func (s *Shell) lookup(name string) (command, bool) {
	i, ok := s.index[strings.ToLower(name)]
	if !ok {
		return command{}, false
	}
	return s.commands[i], true
}

// Run reads and executes lines until exit, end of input or ctx ends. It
// returns the exit code requested by the exit command.
func (s *Shell) Run(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(s.out, s.prompt)
		select {
		case <-ctx.Done():
			return 0
		case line, ok := <-lines:
			if !ok {
				return 0
			}
			if code, exit := s.Execute(ctx, line); exit {
				return code
			}
		}
	}
}

// Execute runs one command line. It reports whether the shell should stop
// and with which code.
func (s *Shell) Execute(ctx context.Context, line string) (int, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, false
	}

	c, ok := s.lookup(fields[0])
	if !ok {
		fmt.Fprintf(s.out, "%s: not found\n", fields[0])
		return 0, false
	}

	args := fields[1:]
	if c.needsDrive && len(args) == 0 {
		fmt.Fprintf(s.errOut, "%s\n", errorStyle.Render("usage: "+c.usage))
		return 0, false
	}
	if c.walks {
		s.announce(args[0])
	}

	err := c.run(ctx, s, args)
	if code, exit := isExit(err); exit {
		return code, true
	}
	if err != nil {
		fmt.Fprintf(s.errOut, "%s\n", errorStyle.Render("Error: "+err.Error()))
	}
	return 0, false
}

func (s *Shell) announce(drive string) {
	if _, err := pathutil.NormalizeDrive(drive); err != nil {
		return
	}
	if _, ok := s.engine.Cached(drive); ok {
		fmt.Fprintln(s.errOut, "Cached scan found! Proceeding..")
		return
	}
	fmt.Fprintln(s.errOut, "No cache found, scanning..")
}
