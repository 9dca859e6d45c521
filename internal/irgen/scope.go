package irgen

import (
	"sable/internal/source"
)

// Scope is a lexical cleanup scope. It remembers the cleanup stack depth
// at construction; Pop emits every still-active cleanup registered since
// then in reverse creation order and removes the entries.
//
// Pop is idempotent so scopes compose with defer:
//
//	s := fn.BeginScope()
//	defer s.Pop(span)
type Scope struct {
	fn     *Fn
	depth  CleanupDepth
	popped bool
}

// BeginScope opens a lexical cleanup scope at the current stack depth.
func (fn *Fn) BeginScope() *Scope {
	return &Scope{fn: fn, depth: fn.Cleanups.Depth()}
}

// Pop exits the scope, emitting its still-active cleanups LIFO. The
// second and later calls are no-ops.
func (s *Scope) Pop(span source.Span) {
	if s.popped {
		return
	}
	s.popped = true
	s.fn.Cleanups.PopTo(s.depth, span)
}
