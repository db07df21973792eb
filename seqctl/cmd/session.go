package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sarchlab/orderedseq/config"
	"github.com/sarchlab/orderedseq/hooking"
	"github.com/sarchlab/orderedseq/recording"
	"github.com/sarchlab/orderedseq/script"
	"github.com/sarchlab/orderedseq/seq"
)

// session is a sequence together with the observers attached from the
// configuration.
type session struct {
	seq      *seq.Sequence
	recorder *recording.SQLiteRecorder
	counter  *hooking.CountHook
}

func newSession(c config.Config, name string) *session {
	b := seq.SequenceBuilder{}.WithCapacity(c.Capacity)

	s := &session{counter: hooking.NewCountHook()}
	b = b.WithHook(s.counter)

	if c.RecordDB != "" {
		s.recorder = recording.New(c.RecordDB)
		b = b.WithHook(s.recorder)
	}

	if c.LogOps {
		b = b.WithHook(hooking.NewLogHook(
			log.New(os.Stderr, "", log.LstdFlags)))
	}

	s.seq = b.Build(name)

	return s
}

func (s *session) run(
	in io.Reader,
	out io.Writer,
	progress func(total int) script.Progress,
) error {
	cmds, err := script.Parse(in)
	if err != nil {
		return err
	}

	runner := script.NewRunner(out)
	if progress != nil {
		runner.WithProgress(progress(len(cmds)))
	}

	return runner.Run(s.seq, cmds)
}

func (s *session) printStats(w io.Writer) {
	for _, pos := range []*hooking.HookPos{
		seq.HookPosInsert, seq.HookPosRemove, seq.HookPosFree,
	} {
		fmt.Fprintf(w, "%s: %d\n", pos.Name, s.counter.Count(pos))
	}
}

func (s *session) close() error {
	s.seq.Free()

	if s.recorder == nil {
		return nil
	}

	return s.recorder.Close()
}
