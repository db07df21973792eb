package hooking

import (
	"log"
)

// A LogHook writes one line for every hook invocation it receives.
type LogHook struct {
	*log.Logger
}

// NewLogHook creates a LogHook that writes to the given logger. A nil logger
// falls back to the standard logger.
func NewLogHook(logger *log.Logger) *LogHook {
	if logger == nil {
		logger = log.Default()
	}

	return &LogHook{Logger: logger}
}

// Func logs the hook context.
func (h *LogHook) Func(ctx HookCtx) {
	name := "<unknown>"
	if ctx.Domain != nil {
		name = ctx.Domain.Name()
	}

	if ctx.Detail != nil {
		h.Printf("%s %s %v %v", name, ctx.Pos.Name, ctx.Item, ctx.Detail)
		return
	}

	h.Printf("%s %s %v", name, ctx.Pos.Name, ctx.Item)
}
