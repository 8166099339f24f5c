// Package sh provides the interactive calculator shell.
package sh

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/calc.go/pkg/calc"
	"github.com/robotalks/calc.go/pkg/env"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	Verbose     bool

	Shell  *ishell.Shell
	Config *env.Config
	Remote *Remote
}

const (
	shellKey     = "$shell"
	localPrompt  = "calc > "
	remotePrompt = "%s > "
)

var (
	evalOnly bool
	verbose  bool

	commands = []*ishell.Cmd{
		&OpsCmd,
		&EvalCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&verbose, "verbose", verbose, "Print the failure reason with ERROR.")
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Verbose:     verbose,
		Shell:       ishell.New(),
		Config:      conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(localPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	s.Shell.NotFound(func(c *ishell.Context) {
		s.Eval(c, strings.Join(c.Args, " "))
	})
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Format formats a transcript for display.
func (s *Shell) Format(t calc.Transcript) string {
	out := t.Output
	if s.Verbose {
		if t.Err != nil {
			out += ": " + t.Err.Error()
		}
		if t.Truncated {
			out += fmt.Sprintf(" (truncated to %d characters)", calc.Capacity)
		}
	}
	return out
}

// Eval evaluates a line, remotely if connected.
func (s *Shell) Eval(c *ishell.Context, line string) {
	if s.Remote != nil {
		reply, err := s.Remote.Send(line)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(reply)
		return
	}
	c.Println(s.Format(calc.Calculate(line)))
}

// Connect connects to the device on the configured link.
func (s *Shell) Connect() error {
	rwc, err := s.Config.DialTerminal()
	if err != nil {
		return err
	}
	s.Disconnect()
	remote := NewRemote(rwc)
	if err := remote.Sync(); err != nil {
		remote.Close()
		return err
	}
	s.Remote = remote
	s.Shell.SetPrompt(fmt.Sprintf(remotePrompt, s.Config.ID))
	return nil
}

// Disconnect returns to local evaluation.
func (s *Shell) Disconnect() {
	if s.Remote != nil {
		s.Remote.Close()
		s.Remote = nil
		s.Shell.SetPrompt(localPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Println("Ready for calculations! Type an equation, or help.")
		s.Shell.Run()
		return
	}
	log.Fatalln("equation expected")
}

var (
	// OpsCmd lists operators.
	OpsCmd = ishell.Cmd{
		Name:    "ops",
		Aliases: []string{"operators"},
		Help:    "list operators",
		Func: func(c *ishell.Context) {
			for _, op := range calc.Operators() {
				c.Printf("%c  %s\n", op.Symbol(), op)
			}
		},
	}

	// EvalCmd evaluates an equation explicitly.
	EvalCmd = ishell.Cmd{
		Name:    "eval",
		Aliases: []string{"="},
		Help:    "NUMBER OPERATOR NUMBER",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Eval(c, strings.Join(c.Args, " "))
		},
	}

	// ConnectCmd connects to the device on -link.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "evaluate on the device served on -link",
		Func: func(c *ishell.Context) {
			if err := ShellFrom(c).Connect(); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd returns to local evaluation.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "evaluate locally",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).Run(flag.Args()...)
}
