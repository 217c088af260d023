// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrQuit ends the repl without it counting as a failure
var ErrQuit = errors.New("quit requested")

// Command is one word the repl understands. Run gets the remaining words of
// the line.
type Command struct {
	Name  string
	Usage string
	Run   func(args []string) (string, error)
}

// ReadCloser combines the Reader and Closer interfaces
type ReadCloser interface {
	io.Reader
	io.Closer
}

type Repl struct {
	Input    ReadCloser
	Output   io.WriteCloser
	commands map[string]Command
	scanner  *bufio.Scanner
	writer   *bufio.Writer
	log      *logrus.Entry
}

// Creates a new repl
// If no input is given, stdin will be used
// If no output is given, stdout will be used
// Note: The given reader and writer will be closed once the repl stops
func NewRepl(in ReadCloser, out io.WriteCloser, commands ...Command) *Repl {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	r := &Repl{
		Input:    in,
		Output:   out,
		commands: map[string]Command{},
		scanner:  bufio.NewScanner(in),
		writer:   bufio.NewWriter(out),
		log:      logrus.WithField("component", "repl"),
	}
	for _, c := range commands {
		r.Register(c)
	}
	return r
}

// Register adds or replaces a command
func (r *Repl) Register(c Command) {
	r.commands[c.Name] = c
}

func (r *Repl) help() string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("Commands:")
	for _, name := range names {
		fmt.Fprintf(&b, "\n  %s", r.commands[name].Usage)
	}
	return b.String()
}

// Handle runs a single line and returns what to print
func (r *Repl) Handle(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	if fields[0] == "help" {
		return r.help(), nil
	}
	c, ok := r.commands[fields[0]]
	if !ok {
		return fmt.Sprintf("Unknown command %q, try help", fields[0]), nil
	}
	r.log.WithFields(logrus.Fields{
		"cmd":  c.Name,
		"args": fields[1:],
	}).Debugln("Running repl command")
	return c.Run(fields[1:])
}

// Starts the repl
// Blocks execution until the input ends or a command returns ErrQuit
// Command errors other than ErrQuit are printed and the repl keeps going
func (r *Repl) Run() error {
	defer r.Close()
	for r.scanner.Scan() {
		res, err := r.Handle(r.scanner.Text())
		switch {
		case errors.Is(err, ErrQuit):
			if res != "" {
				r.write(res)
			}
			return nil
		case err != nil:
			res = "Error: " + err.Error()
		}
		if res == "" {
			continue
		}
		if err := r.write(res); err != nil {
			return err
		}
	}
	return r.scanner.Err()
}

func (r *Repl) write(res string) error {
	if _, err := r.writer.WriteString(res + "\n"); err != nil {
		return fmt.Errorf("failed to write result \"%s\": %w", res, err)
	}
	if err := r.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}
	return nil
}

// Close stops the repl if it was still running
// This will also close the reader and writer
func (r *Repl) Close() {
	r.Input.Close()
	r.Output.Close()
}
