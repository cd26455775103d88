// Package repl provides the interactive shell mode for specvault.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Runner executes one tokenized command line.
type Runner func(args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	prompt    string
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
	runner    Runner
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO overrides input and output, used by tests.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory overrides the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a REPL dispatching lines to the given runner.
func New(runner Runner, opts ...Option) *REPL {
	r := &REPL{
		prompt:    "specvault> ",
		input:     os.Stdin,
		output:    os.Stdout,
		completer: NewCompleter(),
		history:   NewHistory(),
		runner:    runner,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the loop. It returns on EOF or an explicit exit command;
// command errors are printed and do not end the session.
func (r *REPL) Run() error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "Warning: could not load history: %v\n", err)
	}
	defer r.history.Save()

	reader := bufio.NewReader(r.input)
	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		switch line {
		case "exit", "quit":
			return nil
		case "help":
			r.printHelp()
			continue
		}

		args, err := Tokenize(line)
		if err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
			continue
		}
		if err := r.runner(args); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.output, "Commands:")
	for _, cmd := range r.completer.Commands() {
		fmt.Fprintf(r.output, "  %s\n", cmd)
	}
	fmt.Fprintln(r.output, "  help")
	fmt.Fprintln(r.output, "  exit")
}

// Tokenize splits a command line into arguments, honoring single and
// double quotes so messages with spaces survive.
func Tokenize(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	var quote rune
	inToken := false

	for _, ch := range line {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteRune(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			inToken = true
		case ch == ' ' || ch == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(ch)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}
