package script

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/sarchlab/orderedseq/seq"
)

// Progress is notified every time a command finishes.
type Progress interface {
	IncrementFinished(amount uint64)
}

type handler struct {
	arity int
	run   func(r *Runner, s *seq.Sequence, args []int64) error
}

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"insert_front": {1, func(_ *Runner, s *seq.Sequence, a []int64) error {
			s.InsertFront(int32(a[0]))
			return nil
		}},
		"insert_back": {1, func(_ *Runner, s *seq.Sequence, a []int64) error {
			s.InsertBack(int32(a[0]))
			return nil
		}},
		"insert_at": {2, func(_ *Runner, s *seq.Sequence, a []int64) error {
			s.InsertAt(int32(a[0]), int(a[1]))
			return nil
		}},
		"remove_front": {0, func(r *Runner, s *seq.Sequence, _ []int64) error {
			return r.printValue(s.RemoveFront())
		}},
		"remove_back": {0, func(r *Runner, s *seq.Sequence, _ []int64) error {
			return r.printValue(s.RemoveBack())
		}},
		"remove_at": {1, func(r *Runner, s *seq.Sequence, a []int64) error {
			return r.printValue(s.RemoveAt(int(a[0])))
		}},
		"element_at": {1, func(r *Runner, s *seq.Sequence, a []int64) error {
			return r.printValue(s.ElementAt(int(a[0])))
		}},
		"contains": {1, func(r *Runner, s *seq.Sequence, a []int64) error {
			return r.println(strconv.FormatBool(s.Contains(int32(a[0]))))
		}},
		"index_of": {1, func(r *Runner, s *seq.Sequence, a []int64) error {
			return r.println(strconv.Itoa(s.IndexOf(int32(a[0]))))
		}},
		"length": {0, func(r *Runner, s *seq.Sequence, _ []int64) error {
			return r.println(strconv.Itoa(s.Len()))
		}},
		"render": {0, func(r *Runner, s *seq.Sequence, _ []int64) error {
			return s.Print(r.out)
		}},
		"free": {0, func(_ *Runner, s *seq.Sequence, _ []int64) error {
			s.Free()
			return nil
		}},
		"dump": {0, func(r *Runner, s *seq.Sequence, _ []int64) error {
			data, err := json.Marshal(s.State())
			if err != nil {
				return err
			}

			return r.println(string(data))
		}},
	}
}

// Runner executes commands and writes the result of every query command to
// its output, one line per command.
type Runner struct {
	out      io.Writer
	progress Progress
}

// NewRunner creates a runner writing to out.
func NewRunner(out io.Writer) *Runner {
	return &Runner{out: out}
}

// WithProgress sets the progress tracker notified after each command.
func (r *Runner) WithProgress(p Progress) *Runner {
	r.progress = p
	return r
}

// Run executes the commands in order and stops at the first failure.
func (r *Runner) Run(s *seq.Sequence, cmds []Command) error {
	for _, cmd := range cmds {
		err := r.Exec(s, cmd)
		if err != nil {
			return err
		}
	}

	return nil
}

// Exec executes a single command.
func (r *Runner) Exec(s *seq.Sequence, cmd Command) error {
	h, found := handlers[cmd.Name]
	if !found {
		return fmt.Errorf("line %d: %w %q", cmd.Line, ErrUnknownCommand, cmd.Name)
	}

	if len(cmd.Args) != h.arity {
		return fmt.Errorf("line %d: %w: %s takes %d, got %d",
			cmd.Line, ErrArgCount, cmd.Name, h.arity, len(cmd.Args))
	}

	err := h.run(r, s, cmd.Args)
	if err != nil {
		return fmt.Errorf("line %d: %s: %w", cmd.Line, cmd.Name, err)
	}

	if r.progress != nil {
		r.progress.IncrementFinished(1)
	}

	return nil
}

func (r *Runner) printValue(v int32, ok bool) error {
	if !ok {
		return r.println("none")
	}

	return r.println(strconv.FormatInt(int64(v), 10))
}

func (r *Runner) println(s string) error {
	_, err := io.WriteString(r.out, s+"\n")
	return err
}
