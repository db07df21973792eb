// Package seq provides Sequence, a singly-linked ordered container of int32
// elements.
//
// Every method accepts a nil *Sequence and treats it as an absent container:
// queries return empty results and mutations do nothing.
package seq

import (
	"github.com/sarchlab/orderedseq/hooking"
)

// Sentinel is returned together with ok == false by the element-returning
// methods.
const Sentinel int32 = -1

// OrSentinel collapses a (value, ok) pair into a single value, mapping a
// missing value to Sentinel.
func OrSentinel(v int32, ok bool) int32 {
	if !ok {
		return Sentinel
	}

	return v
}

// A Sequence is a singly-linked list of int32 values kept in insertion order.
// A Sequence is not safe for concurrent use.
type Sequence struct {
	hooking.HookableBase

	name string
	id   string
	head nodeRef
	pool nodePool
}

// New creates an empty, unbounded sequence.
func New(name string) *Sequence {
	return SequenceBuilder{}.Build(name)
}

// Name returns the name of the sequence.
func (s *Sequence) Name() string {
	if s == nil {
		return ""
	}

	return s.name
}

// ID returns the unique ID assigned at build time.
func (s *Sequence) ID() string {
	if s == nil {
		return ""
	}

	return s.id
}

// Capacity returns the maximum number of elements, or 0 if unbounded.
func (s *Sequence) Capacity() int {
	if s == nil {
		return 0
	}

	return s.pool.capacity
}

// Len returns the number of elements.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}

	return s.pool.inUse
}

// InsertFront makes v the new head.
func (s *Sequence) InsertFront(v int32) {
	if s == nil {
		return
	}

	s.linkFront(v, OpInsertFront)
}

// InsertBack appends v after the current tail.
func (s *Sequence) InsertBack(v int32) {
	if s == nil {
		return
	}

	ref := s.pool.acquire(v)

	if s.head == nilRef {
		s.head = ref
	} else {
		s.pool.get(s.tail()).next = ref
	}

	s.invoke(HookPosInsert, Op{
		Kind: OpInsertBack, Index: s.Len() - 1, Value: v, Len: s.Len(),
	})
}

// InsertAt inserts v so that it occupies position index afterwards. A
// negative index, or an index with no element at index-1, is ignored.
func (s *Sequence) InsertAt(v int32, index int) {
	if s == nil || index < 0 {
		return
	}

	if index == 0 {
		s.linkFront(v, OpInsertAt)
		return
	}

	prev := s.nodeAt(index - 1)
	if prev == nilRef {
		return
	}

	ref := s.pool.acquire(v)
	prevNode := s.pool.get(prev)
	s.pool.get(ref).next = prevNode.next
	prevNode.next = ref

	s.invoke(HookPosInsert, Op{
		Kind: OpInsertAt, Index: index, Value: v, Len: s.Len(),
	})
}

// RemoveFront unlinks the head and returns its value.
func (s *Sequence) RemoveFront() (int32, bool) {
	if s == nil || s.head == nilRef {
		return Sentinel, false
	}

	return s.unlinkFront(OpRemoveFront), true
}

// RemoveBack unlinks the tail and returns its value.
func (s *Sequence) RemoveBack() (int32, bool) {
	if s == nil || s.head == nilRef {
		return Sentinel, false
	}

	if s.pool.get(s.head).next == nilRef {
		return s.unlinkFront(OpRemoveBack), true
	}

	prev := s.head
	for s.pool.get(s.pool.get(prev).next).next != nilRef {
		prev = s.pool.get(prev).next
	}

	return s.unlinkAfter(prev, s.Len()-1, OpRemoveBack), true
}

// RemoveAt unlinks the element at index and returns its value.
func (s *Sequence) RemoveAt(index int) (int32, bool) {
	if s == nil || s.head == nilRef || index < 0 {
		return Sentinel, false
	}

	if index == 0 {
		return s.unlinkFront(OpRemoveAt), true
	}

	prev := s.nodeAt(index - 1)
	if prev == nilRef || s.pool.get(prev).next == nilRef {
		return Sentinel, false
	}

	return s.unlinkAfter(prev, index, OpRemoveAt), true
}

// Contains reports whether v is stored in the sequence.
func (s *Sequence) Contains(v int32) bool {
	return s.IndexOf(v) >= 0
}

// IndexOf returns the index of the first element equal to v, or -1.
func (s *Sequence) IndexOf(v int32) int {
	if s == nil {
		return -1
	}

	index := 0
	for ref := s.head; ref != nilRef; ref = s.pool.get(ref).next {
		if s.pool.get(ref).value == v {
			return index
		}

		index++
	}

	return -1
}

// ElementAt returns the value at index.
func (s *Sequence) ElementAt(index int) (int32, bool) {
	if s == nil || index < 0 {
		return Sentinel, false
	}

	ref := s.nodeAt(index)
	if ref == nilRef {
		return Sentinel, false
	}

	return s.pool.get(ref).value, true
}

// Free releases every node. The sequence stays usable and is empty
// afterwards. Calling Free on a nil or empty sequence does nothing.
func (s *Sequence) Free() {
	if s == nil {
		return
	}

	released := s.releaseAll()
	if released == 0 {
		return
	}

	s.invoke(HookPosFree, Op{Kind: OpFree, Count: released})
}

// Snapshot returns the elements in order.
func (s *Sequence) Snapshot() []int32 {
	if s == nil {
		return nil
	}

	values := make([]int32, 0, s.Len())
	for ref := s.head; ref != nilRef; ref = s.pool.get(ref).next {
		values = append(values, s.pool.get(ref).value)
	}

	return values
}

func (s *Sequence) linkFront(v int32, kind OpKind) {
	ref := s.pool.acquire(v)
	s.pool.get(ref).next = s.head
	s.head = ref

	s.invoke(HookPosInsert, Op{Kind: kind, Index: 0, Value: v, Len: s.Len()})
}

func (s *Sequence) unlinkFront(kind OpKind) int32 {
	ref := s.head
	n := s.pool.get(ref)
	v := n.value
	s.head = n.next
	s.pool.release(ref)

	s.invoke(HookPosRemove, Op{Kind: kind, Index: 0, Value: v, Len: s.Len()})

	return v
}

func (s *Sequence) unlinkAfter(prev nodeRef, index int, kind OpKind) int32 {
	prevNode := s.pool.get(prev)
	ref := prevNode.next
	n := s.pool.get(ref)
	v := n.value
	prevNode.next = n.next
	s.pool.release(ref)

	s.invoke(HookPosRemove, Op{Kind: kind, Index: index, Value: v, Len: s.Len()})

	return v
}

// nodeAt walks index links from the head. It returns nilRef if the chain is
// shorter than that.
func (s *Sequence) nodeAt(index int) nodeRef {
	ref := s.head
	for i := 0; ref != nilRef && i < index; i++ {
		ref = s.pool.get(ref).next
	}

	return ref
}

func (s *Sequence) tail() nodeRef {
	ref := s.head
	for s.pool.get(ref).next != nilRef {
		ref = s.pool.get(ref).next
	}

	return ref
}

func (s *Sequence) releaseAll() int {
	released := 0

	ref := s.head
	for ref != nilRef {
		next := s.pool.get(ref).next
		s.pool.release(ref)
		ref = next
		released++
	}

	s.head = nilRef
	s.pool.reset()

	return released
}

func (s *Sequence) invoke(pos *hooking.HookPos, op Op) {
	if s.NumHooks() == 0 {
		return
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    pos,
		Item:   op,
	})
}
