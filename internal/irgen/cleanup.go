package irgen

import (
	"fmt"

	"fortio.org/safecast"

	"sable/internal/source"
)

// CleanupState tracks whether a pending cleanup will run at scope exit.
type CleanupState uint8

const (
	// CleanupDead is permanently inert; the entry is kept only so
	// handles stay stable until the stack is popped past it.
	CleanupDead CleanupState = iota
	// CleanupDormant is temporarily suspended; it may be reactivated.
	CleanupDormant
	// CleanupActive will run when the owning scope unwinds past it.
	CleanupActive
)

// String returns a human-readable representation of the state.
func (s CleanupState) String() string {
	switch s {
	case CleanupDead:
		return "dead"
	case CleanupDormant:
		return "dormant"
	case CleanupActive:
		return "active"
	default:
		return "?"
	}
}

// CleanupFn is the deferred release logic of one cleanup, a closure over
// the value it protects. It emits through the function's builder.
type CleanupFn func(fn *Fn, span source.Span)

// CleanupHandle is an opaque, stable reference to a cleanup stack entry.
// Handles are generation-tagged indices: a handle goes stale once the
// stack is popped past its entry, and every use revalidates it. The zero
// handle is the invalid sentinel.
type CleanupHandle struct {
	index uint32
	gen   uint32
}

// IsValid returns true if the handle refers to a cleanup.
func (h CleanupHandle) IsValid() bool { return h.gen != 0 }

// Cleanup is one pending release obligation.
type Cleanup struct {
	state CleanupState
	gen   uint32
	span  source.Span
	run   CleanupFn
}

// CleanupDepth is a saved stack depth used to pop a scope's cleanups.
type CleanupDepth int

// CleanupStack is the LIFO ledger of pending cleanups for one function's
// code generation. Misuse (stale handles, out-of-order emission) is a
// bug in the calling code-generation logic and panics rather than being
// reported as a recoverable error: continuing would generate code with
// broken ownership.
type CleanupStack struct {
	fn      *Fn
	entries []Cleanup
	nextGen uint32
}

func newCleanupStack(fn *Fn) *CleanupStack {
	return &CleanupStack{fn: fn, nextGen: 1}
}

// Push registers a new active cleanup on top of the stack.
func (cs *CleanupStack) Push(run CleanupFn, span source.Span) CleanupHandle {
	if run == nil {
		panic(fmt.Errorf("irgen: pushed nil cleanup"))
	}
	raw, err := safecast.Conv[uint32](len(cs.entries))
	if err != nil {
		panic(fmt.Errorf("irgen: cleanup stack overflow: %w", err))
	}
	gen := cs.nextGen
	cs.nextGen++
	cs.entries = append(cs.entries, Cleanup{
		state: CleanupActive,
		gen:   gen,
		span:  span,
		run:   run,
	})
	return CleanupHandle{index: raw, gen: gen}
}

// Depth returns a marker for the current stack depth; pass it to PopTo
// at scope exit.
func (cs *CleanupStack) Depth() CleanupDepth {
	return CleanupDepth(len(cs.entries))
}

// TopHandle returns the handle of the most recently pushed cleanup, or
// the invalid handle if the stack is empty.
func (cs *CleanupStack) TopHandle() CleanupHandle {
	if len(cs.entries) == 0 {
		return CleanupHandle{}
	}
	i := len(cs.entries) - 1
	return CleanupHandle{index: uint32(i), gen: cs.entries[i].gen}
}

func (cs *CleanupStack) lookup(h CleanupHandle) *Cleanup {
	if !h.IsValid() {
		panic(fmt.Errorf("irgen: use of invalid cleanup handle"))
	}
	if int(h.index) >= len(cs.entries) {
		panic(fmt.Errorf("irgen: stale cleanup handle: stack popped past entry %d", h.index))
	}
	c := &cs.entries[h.index]
	if c.gen != h.gen {
		panic(fmt.Errorf("irgen: stale cleanup handle: entry %d was reused", h.index))
	}
	return c
}

// State returns the current state of the referenced cleanup. Panics on
// a stale or invalid handle.
func (cs *CleanupStack) State(h CleanupHandle) CleanupState {
	return cs.lookup(h).state
}

// Forward marks the referenced cleanup dead without emitting it: the
// protected value's ownership has been transferred elsewhere, so no
// release is owed here. The cleanup must currently be active or dormant.
func (cs *CleanupStack) Forward(h CleanupHandle) {
	c := cs.lookup(h)
	if c.state == CleanupDead {
		panic(fmt.Errorf("irgen: forwarding a dead cleanup"))
	}
	c.state = CleanupDead
}

// SetState transitions the referenced cleanup without emitting it.
func (cs *CleanupStack) SetState(h CleanupHandle, state CleanupState) {
	cs.lookup(h).state = state
}

// Emit runs the referenced cleanup's action at the current insertion
// point. The cleanup must be active. When there is no valid insertion
// point the action is skipped; the caller still transitions the entry
// out of active via SetState or Forward.
func (cs *CleanupStack) Emit(h CleanupHandle, span source.Span) {
	c := cs.lookup(h)
	if c.state != CleanupActive {
		panic(fmt.Errorf("irgen: cleanup emitted while %s", c.state))
	}
	if !cs.fn.B.HasValidInsertionPoint() {
		return
	}
	c.run(cs.fn, span)
}

// PopTo pops cleanups from the top of the stack down to the saved depth,
// emitting each still-active entry in reverse creation order.
func (cs *CleanupStack) PopTo(depth CleanupDepth, span source.Span) {
	if depth < 0 || int(depth) > len(cs.entries) {
		panic(fmt.Errorf("irgen: popping cleanups to invalid depth %d (stack has %d)", depth, len(cs.entries)))
	}
	emit := cs.fn.B.HasValidInsertionPoint()
	for i := len(cs.entries) - 1; i >= int(depth); i-- {
		c := &cs.entries[i]
		if c.state == CleanupActive && emit {
			c.run(cs.fn, span)
		}
		c.state = CleanupDead
	}
	cs.entries = cs.entries[:depth]
}
