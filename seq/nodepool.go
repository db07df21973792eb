package seq

import (
	"math"

	"github.com/tebeka/atexit"
)

// fatalf terminates the process after running the registered exit handlers.
var fatalf = atexit.Fatalf

type nodeRef int32

const nilRef nodeRef = -1

// MaxCapacity is the largest number of nodes a sequence can address.
const MaxCapacity = math.MaxInt32

// preallocLimit caps the slots reserved up front for a bounded pool.
const preallocLimit = 1024

type node struct {
	value    int32
	next     nodeRef
	released bool
}

// nodePool is a slice-backed arena of nodes. Released slots are chained into
// a free list through their next field and reused before the slice grows.
type nodePool struct {
	nodes    []node
	freeHead nodeRef
	inUse    int
	capacity int
}

func makeNodePool(capacity int) nodePool {
	p := nodePool{
		freeHead: nilRef,
		capacity: capacity,
	}

	if capacity > 0 {
		p.nodes = make([]node, 0, min(capacity, preallocLimit))
	}

	return p
}

func (p *nodePool) acquire(value int32) nodeRef {
	if p.capacity > 0 && p.inUse >= p.capacity {
		fatalf("seq: failed to allocate node, all %d slots are in use",
			p.capacity)

		return nilRef
	}

	if p.freeHead == nilRef && len(p.nodes) >= MaxCapacity {
		fatalf("seq: failed to allocate node, %d nodes is the limit",
			MaxCapacity)

		return nilRef
	}

	p.inUse++

	if p.freeHead != nilRef {
		ref := p.freeHead
		n := &p.nodes[ref]
		p.freeHead = n.next

		*n = node{value: value, next: nilRef}

		return ref
	}

	p.nodes = append(p.nodes, node{value: value, next: nilRef})

	return nodeRef(len(p.nodes) - 1)
}

func (p *nodePool) release(ref nodeRef) {
	n := &p.nodes[ref]
	if n.released {
		panic("seq: node released twice")
	}

	n.released = true
	n.next = p.freeHead
	p.freeHead = ref
	p.inUse--
}

func (p *nodePool) get(ref nodeRef) *node {
	return &p.nodes[ref]
}

// reset drops every slot. It must only be called once all the nodes have been
// released.
func (p *nodePool) reset() {
	p.nodes = p.nodes[:0]
	p.freeHead = nilRef
	p.inUse = 0
}
