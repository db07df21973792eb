package seq

import (
	"fmt"

	"github.com/sarchlab/orderedseq/hooking"
	"github.com/sarchlab/orderedseq/idgen"
)

// SequenceBuilder can build sequences.
type SequenceBuilder struct {
	capacity int
	hooks    []hooking.Hook
	idGen    idgen.Generator
}

// WithCapacity limits the number of elements the sequence can hold. Inserting
// into a full sequence terminates the process. 0 means unbounded. The
// capacity must be in [0, MaxCapacity].
func (b SequenceBuilder) WithCapacity(capacity int) SequenceBuilder {
	b.capacity = capacity
	return b
}

// WithHook attaches a hook to the sequences built.
func (b SequenceBuilder) WithHook(hook hooking.Hook) SequenceBuilder {
	hooks := make([]hooking.Hook, len(b.hooks), len(b.hooks)+1)
	copy(hooks, b.hooks)
	b.hooks = append(hooks, hook)

	return b
}

// WithIDGenerator sets the generator that assigns sequence IDs.
func (b SequenceBuilder) WithIDGenerator(g idgen.Generator) SequenceBuilder {
	b.idGen = g
	return b
}

// Build creates a new empty sequence.
func (b SequenceBuilder) Build(name string) *Sequence {
	if b.capacity < 0 {
		panic("capacity must not be negative")
	}

	if int64(b.capacity) > MaxCapacity {
		panic(fmt.Sprintf("capacity must not exceed %d", MaxCapacity))
	}

	g := b.idGen
	if g == nil {
		g = idgen.Default()
	}

	s := &Sequence{
		name: name,
		id:   g.Generate(),
		head: nilRef,
		pool: makeNodePool(b.capacity),
	}

	for _, h := range b.hooks {
		s.AcceptHook(h)
	}

	return s
}
