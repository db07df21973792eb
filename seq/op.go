package seq

import (
	"fmt"

	"github.com/sarchlab/orderedseq/hooking"
)

// HookPosInsert marks when an element is linked into a sequence.
var HookPosInsert = &hooking.HookPos{Name: "Seq Insert"}

// HookPosRemove marks when an element is unlinked from a sequence.
var HookPosRemove = &hooking.HookPos{Name: "Seq Remove"}

// HookPosFree marks when a sequence releases all of its nodes.
var HookPosFree = &hooking.HookPos{Name: "Seq Free"}

// OpKind names the operation that triggered a hook.
type OpKind string

// The operations that mutate a sequence.
const (
	OpInsertFront OpKind = "insert_front"
	OpInsertBack  OpKind = "insert_back"
	OpInsertAt    OpKind = "insert_at"
	OpRemoveFront OpKind = "remove_front"
	OpRemoveBack  OpKind = "remove_back"
	OpRemoveAt    OpKind = "remove_at"
	OpFree        OpKind = "free"
)

// Op is the item passed to hooks. Index is the position the element occupies
// after an insertion or occupied before a removal. Len is the length after the
// operation. Count is the number of released nodes, only set by OpFree.
type Op struct {
	Kind  OpKind
	Index int
	Value int32
	Len   int
	Count int
}

func (o Op) String() string {
	if o.Kind == OpFree {
		return fmt.Sprintf("%s released=%d", o.Kind, o.Count)
	}

	return fmt.Sprintf("%s[%d]=%d len=%d", o.Kind, o.Index, o.Value, o.Len)
}
