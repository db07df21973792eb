package hooking

import (
	"sync"
)

// CountHook counts how many times each hook position is triggered.
type CountHook struct {
	lock sync.Mutex

	posNames []string
	counts   map[string]uint64
}

// NewCountHook creates a new CountHook.
func NewCountHook() *CountHook {
	return &CountHook{
		counts: make(map[string]uint64),
	}
}

// Func counts the hook position of the context.
func (h *CountHook) Func(ctx HookCtx) {
	h.lock.Lock()
	defer h.lock.Unlock()

	name := ctx.Pos.Name

	_, ok := h.counts[name]
	if !ok {
		h.posNames = append(h.posNames, name)
	}

	h.counts[name]++
}

// PosNames returns the names of the positions seen, in first-seen order.
func (h *CountHook) PosNames() []string {
	h.lock.Lock()
	defer h.lock.Unlock()

	names := make([]string, len(h.posNames))
	copy(names, h.posNames)

	return names
}

// Count returns the number of times the given position was triggered.
func (h *CountHook) Count(pos *HookPos) uint64 {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.counts[pos.Name]
}
