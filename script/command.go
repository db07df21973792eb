// Package script runs line-oriented operation scripts against a sequence.
//
// Each non-empty line holds one command followed by its integer arguments:
//
//	insert_back 1
//	insert_at 9 2   # value, then index
//	render
//
// Text after a '#' is ignored.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrUnknownCommand is returned for a command name that is not supported.
var ErrUnknownCommand = errors.New("unknown command")

// ErrArgCount is returned when a command has the wrong number of arguments.
var ErrArgCount = errors.New("wrong number of arguments")

// Command is one parsed script line.
type Command struct {
	Line int
	Name string
	Args []int64
}

func (c Command) String() string {
	parts := []string{c.Name}
	for _, a := range c.Args {
		parts = append(parts, strconv.FormatInt(a, 10))
	}

	return strings.Join(parts, " ")
}

// ParseError reports the line a script failed to parse at.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a whole script.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		cmd, ok, err := ParseLine(lineNo, scanner.Text())
		if err != nil {
			return nil, err
		}

		if ok {
			cmds = append(cmds, cmd)
		}
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	return cmds, nil
}

// ParseLine parses a single line. ok is false for blank and comment lines.
func ParseLine(lineNo int, line string) (cmd Command, ok bool, err error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, false, nil
	}

	name := strings.ToLower(fields[0])

	h, found := handlers[name]
	if !found {
		return Command{}, false, &ParseError{
			Line: lineNo,
			Err:  fmt.Errorf("%w %q", ErrUnknownCommand, fields[0]),
		}
	}

	if len(fields)-1 != h.arity {
		return Command{}, false, &ParseError{
			Line: lineNo,
			Err: fmt.Errorf("%w: %s takes %d, got %d",
				ErrArgCount, name, h.arity, len(fields)-1),
		}
	}

	cmd = Command{Line: lineNo, Name: name}

	for _, f := range fields[1:] {
		arg, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return Command{}, false, &ParseError{Line: lineNo, Err: err}
		}

		cmd.Args = append(cmd.Args, arg)
	}

	return cmd, true, nil
}
